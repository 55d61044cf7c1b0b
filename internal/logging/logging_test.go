package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/config"
)

func TestNew_WritesJSONFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	var console bytes.Buffer

	logger, closeFn, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, &console)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("assessment completed", zap.String("definition", "mmse"), zap.Int("total", 24))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entries are below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "assessment completed", entry["msg"])
	assert.Equal(t, "mmse", entry["definition"])
	assert.EqualValues(t, 24, entry["total"])
	assert.Contains(t, entry["caller"], "logging_test.go")

	assert.Contains(t, console.String(), "assessment completed")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")}, nil)
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cogniscreen", "cogniscreen.log"), p)
}
