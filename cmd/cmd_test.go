package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the CLI with args and returns stdout. Flag values are reset
// first since the command tree is shared between tests.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COGNISCREEN_LLM_PROVIDER", "none")
	t.Chdir(t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	logFile := filepath.Join(t.TempDir(), "cogniscreen.log")
	rootCmd.SetArgs(append(args, "--log-file", logFile, "--log-level", "warn"))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cogniscreen")
}

func TestPatientsSearch(t *testing.T) {
	out, err := execute(t, "patients", "--search", "alz")
	require.NoError(t, err)
	assert.Contains(t, out, "María García")
	assert.Contains(t, out, "2 patients")
	assert.NotContains(t, out, "Ana Martínez")
}

func TestTestsMarksUnavailable(t *testing.T) {
	out, err := execute(t, "tests")
	require.NoError(t, err)
	assert.Contains(t, out, "Trail Making Test")
	assert.Contains(t, out, "En desarrollo")
}

func TestResultsForPatient(t *testing.T) {
	out, err := execute(t, "results", "--patient", "P001")
	require.NoError(t, err)
	assert.Contains(t, out, "María García")
	assert.NotContains(t, out, "Pending reports")
}

func TestReportsListPending(t *testing.T) {
	out, err := execute(t, "reports", "list", "--filter", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "2 reports, 2 pending (Pendientes)")
}

func TestReportsListRejectsUnknownFilter(t *testing.T) {
	_, err := execute(t, "reports", "list", "--filter", "urgent")
	assert.ErrorContains(t, err, "unknown report filter")
}

func TestReportsExportYAML(t *testing.T) {
	out, err := execute(t, "reports", "export", "1", "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "1", doc["id"])
	assert.Equal(t, "P001", doc["patient"].(map[string]any)["id"])
}

func TestReportsExportToDir(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "reports", "export", "1", "--dir", dir)
	require.NoError(t, err)

	path := filepath.Clean(out[:len(out)-1])
	assert.Equal(t, dir, filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestReportsGenerateUsesTemplateNarrative(t *testing.T) {
	out, err := execute(t, "reports", "generate", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Report 3 generated")
	assert.Contains(t, out, "template narrative")
}

func TestReportsShowUnknown(t *testing.T) {
	_, err := execute(t, "reports", "show", "99")
	assert.Error(t, err)
}

func TestDefinitionsList(t *testing.T) {
	out, err := execute(t, "definitions")
	require.NoError(t, err)
	for _, id := range []string{"mmse", "mmse-self", "moca", "clock"} {
		assert.Contains(t, out, id)
	}
}

func TestDefinitionsYAML(t *testing.T) {
	out, err := execute(t, "definitions", "moca", "--yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "moca", doc["id"])
	assert.Equal(t, 30, doc["max_score"])
}

func TestDefinitionsUnknown(t *testing.T) {
	_, err := execute(t, "definitions", "gds")
	assert.ErrorContains(t, err, "unknown definition")
}

func TestScore(t *testing.T) {
	file := filepath.Join(t.TempDir(), "responses.yaml")
	require.NoError(t, os.WriteFile(file, []byte("calc1: 93\n"), 0o644))

	out, err := execute(t, "score", "mmse-self", file)
	require.NoError(t, err)

	docEnd := bytes.Index([]byte(out), []byte("\n\n"))
	require.Positive(t, docEnd)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out[:docEnd]), &doc))
	assert.Equal(t, "mmse-self", doc["definition"])
	assert.Equal(t, 1, doc["totalScore"])
	assert.Equal(t, 30, doc["maxScore"])
	assert.Equal(t, "manual", doc["reason"])
	assert.Contains(t, out, "Total")
}

func TestScoreRejectsUnknownQuestion(t *testing.T) {
	file := filepath.Join(t.TempDir(), "responses.yaml")
	require.NoError(t, os.WriteFile(file, []byte("nope: 1\n"), 0o644))

	_, err := execute(t, "score", "mmse", file)
	assert.ErrorContains(t, err, "unknown question")
}

func TestLLMStatusWithoutProvider(t *testing.T) {
	out, err := execute(t, "llm", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "template narratives")
}
