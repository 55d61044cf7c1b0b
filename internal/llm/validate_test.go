package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResponse(t *testing.T) {
	schema := &Schema{Name: "validate-narrative", Definition: narrativeSchemaDefinition()}

	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"complete", `{"summary":"ok","observations":["memoria"],"risk":"low","score":25}`, true},
		{"optional omitted", `{"summary":"ok","observations":[]}`, true},
		{"missing required", `{"summary":"ok"}`, false},
		{"wrong type", `{"summary":1,"observations":[]}`, false},
		{"bad enum", `{"summary":"ok","observations":[],"risk":"extreme"}`, false},
		{"wrong item type", `{"summary":"ok","observations":[1]}`, false},
		{"malformed", `{"summary":`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(schema, json.RawMessage(tt.raw))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.raw, string(inv.Content))
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
}

func TestCompileSchema_Cached(t *testing.T) {
	schema := &Schema{Name: "cached-narrative", Definition: narrativeSchemaDefinition()}
	first, err := compileSchema(schema)
	require.NoError(t, err)
	second, err := compileSchema(schema)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
