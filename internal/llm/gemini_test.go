package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(narrativeSchemaDefinition())

	assert.Equal(t, genai.TypeObject, schema.Type)
	require.Contains(t, schema.Properties, "summary")
	assert.Equal(t, genai.TypeString, schema.Properties["summary"].Type)
	require.Contains(t, schema.Properties, "observations")
	assert.Equal(t, genai.TypeArray, schema.Properties["observations"].Type)
	assert.Equal(t, genai.TypeString, schema.Properties["observations"].Items.Type)
	assert.Equal(t, []string{"low", "moderate", "high"}, schema.Properties["risk"].Enum)
	assert.ElementsMatch(t, []string{"summary", "observations"}, schema.Required)
}

func TestBuildGeminiContents(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "MMSE 25/30"},
		{Role: RoleAssistant, Content: "{}"},
	})
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "MMSE 25/30", contents[0].Parts[0].Text)
}

func narrativeSchemaDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":      map[string]any{"type": "string"},
			"observations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"risk":         map[string]any{"type": "string", "enum": []any{"low", "moderate", "high"}},
			"score":        map[string]any{"type": "integer"},
		},
		"required": []any{"summary", "observations"},
	}
}
