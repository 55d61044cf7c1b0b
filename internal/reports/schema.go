package reports

import "github.com/abhisek/cogniscreen/internal/llm"

// NarrativeSchema constrains LLM narratives.
var NarrativeSchema = &llm.Schema{
	Name:        "report-narrative",
	Description: "Clinical interpretation of a cognitive screening result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentence interpretation of the result, in Spanish",
			},
			"observations": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-4 observations about specific cognitive domains",
			},
			"recommendations": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 follow-up recommendations for the clinician",
			},
		},
		"required":             []any{"summary", "observations", "recommendations"},
		"additionalProperties": false,
	},
}
