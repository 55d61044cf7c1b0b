// Package llm is the provider-agnostic client used to draft clinical report
// narratives. Providers return JSON constrained by a Schema; decorators add
// rate limiting, retries, timeouts and request logging.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set, Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string

	// Name returns the provider name, e.g. "anthropic".
	Name() string
}

// Request describes one prompt.
type Request struct {
	System string

	// Messages holds the conversation. Report drafting sends a single
	// user message carrying the assessment summary.
	Messages []Message

	// Schema constrains the output. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema the output must conform to. Name is kebab-case
// and doubles as the cache key for the compiled schema.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// GenerateInto runs req and decodes the JSON content into v.
func GenerateInto(ctx context.Context, p Provider, req Request, v any) (*Response, error) {
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resp.Content, v); err != nil {
		return resp, &ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("decode %T: %w", v, err),
		}
	}
	return resp, nil
}
