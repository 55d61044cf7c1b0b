package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupPrice returns the pricing for modelID or nil if unknown. Dated
// snapshot IDs returned by the APIs (gpt-4o-mini-2024-07-18) fall back to
// the longest known prefix.
func LookupPrice(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	best := ""
	for id := range modelCosts {
		if strings.HasPrefix(modelID, id+"-") && len(id) > len(best) {
			best = id
		}
	}
	if best == "" {
		return nil
	}
	c := modelCosts[best]
	return &c
}

// LookupCost prices one request, returning 0 for unknown models.
func LookupCost(modelID string, inputTokens, outputTokens int) float64 {
	if c := LookupPrice(modelID); c != nil {
		return c.Cost(inputTokens, outputTokens)
	}
	return 0
}

// modelCosts covers the models reachable through the friendly names above
// plus the common OpenRouter defaults. Prices from models.dev.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":          {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-sonnet-4-5":         {3, 15},
	"claude-opus-4-1-20250805":  {15, 75},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.0-pro":        {1.25, 10},

	"google/gemini-2.0-flash-exp": {0, 0},
	"anthropic/claude-3-haiku":    {0.25, 1.25},
	"meta-llama/llama-3-8b":       {0.03, 0.06},
}
