package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

var testColumns = []string{"id", "definition_id", "name", "kind", "status", "updated"}

type testRepo struct {
	db *sql.DB
}

func (r *testRepo) List(ctx context.Context, search string) ([]TestEntry, error) {
	b := builder()
	sel := b.Select(testColumns...).From(b.Table("tests")).OrderBy(entsql.Asc("id"))
	if search = strings.TrimSpace(search); search != "" {
		sel.Where(entsql.Or(
			entsql.ContainsFold("name", search),
			entsql.ContainsFold("kind", search),
			entsql.ContainsFold("status", search),
		))
	}

	var out []TestEntry
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return out, nil
}

func (r *testRepo) Get(ctx context.Context, id string) (*TestEntry, error) {
	b := builder()
	sel := b.Select(testColumns...).From(b.Table("tests")).Where(entsql.EQ("id", id))

	var out []TestEntry
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("get test %s: %w", id, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("test %s: %w", id, ErrNotFound)
	}
	return &out[0], nil
}
