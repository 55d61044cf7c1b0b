package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

var patientColumns = []string{"id", "name", "age", "gender", "diagnosis", "email", "phone", "last_test", "status"}

type patientRepo struct {
	db *sql.DB
}

func (r *patientRepo) List(ctx context.Context, search string) ([]Patient, error) {
	b := builder()
	sel := b.Select(patientColumns...).From(b.Table("patients")).
		OrderBy(entsql.Desc("last_test"), entsql.Asc("id"))
	if search = strings.TrimSpace(search); search != "" {
		sel.Where(entsql.Or(
			entsql.ContainsFold("name", search),
			entsql.ContainsFold("diagnosis", search),
		))
	}

	var out []Patient
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (r *patientRepo) Get(ctx context.Context, id string) (*Patient, error) {
	return getPatient(ctx, r.db, id)
}

func (r *patientRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "patients", nil)
}

func getPatient(ctx context.Context, q querier, id string) (*Patient, error) {
	b := builder()
	sel := b.Select(patientColumns...).From(b.Table("patients")).Where(entsql.EQ("id", id))

	var out []Patient
	if err := selectAll(ctx, q, sel, &out); err != nil {
		return nil, fmt.Errorf("get patient %s: %w", id, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	return &out[0], nil
}

// count returns the number of rows in table matching p (all rows when nil).
func count(ctx context.Context, q querier, table string, p *entsql.Predicate) (int, error) {
	b := builder()
	sel := b.Select().From(b.Table(table)).Count()
	if p != nil {
		sel.Where(p)
	}
	var n []int
	if err := selectAll(ctx, q, sel, &n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	if len(n) == 0 {
		return 0, nil
	}
	return n[0], nil
}
