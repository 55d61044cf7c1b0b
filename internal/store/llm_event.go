package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := exec(ctx, r.db, builder().Insert("llm_requests").
		Columns("created_at", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "cost", "request_body", "response_body").
		Values(time.Now().UTC().Format(time.RFC3339), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, data.Cost,
			data.RequestBody, data.ResponseBody))
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) (*LLMUsage, error) {
	b := builder()
	sel := b.Select(
		entsql.As(entsql.Count("*"), "requests"),
		entsql.As("COALESCE(SUM(`input_tokens`), 0)", "input_tokens"),
		entsql.As("COALESCE(SUM(`output_tokens`), 0)", "output_tokens"),
		entsql.As("COALESCE(SUM(`cost`), 0)", "cost"),
	).From(b.Table("llm_requests"))

	var out []LLMUsage
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("llm usage: %w", err)
	}
	if len(out) == 0 {
		return &LLMUsage{}, nil
	}
	return &out[0], nil
}
