package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
)

// sequenceCounter hands out human-readable report numbers ("1", "2", ...).
// Seeded reports take the first numbers; new reports continue from there.
//
// Uses raw SQL because the ent builder has no RETURNING support for SQLite
// updates. The mutex serializes within the process; the RETURNING clause
// makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		name TEXT PRIMARY KEY,
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}
	return &sequenceCounter{}, nil
}

// Next returns the next value of the named sequence and increments it.
func (sc *sequenceCounter) Next(ctx context.Context, q querier, name string) (string, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if _, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO sequences (name, next_val) VALUES (?, 1)`, name,
	); err != nil {
		return "", fmt.Errorf("seed sequence %s: %w", name, err)
	}

	var n int64
	err := q.QueryRowContext(ctx,
		`UPDATE sequences SET next_val = next_val + 1 WHERE name = ? RETURNING next_val - 1`, name,
	).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next sequence %s: %w", name, err)
	}
	return strconv.FormatInt(n, 10), nil
}

// Reset moves the named sequence so the next value is next.
func (sc *sequenceCounter) Reset(ctx context.Context, q querier, name string, next int64) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	_, err := q.ExecContext(ctx,
		`INSERT INTO sequences (name, next_val) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET next_val = excluded.next_val`, name, next,
	)
	return err
}
