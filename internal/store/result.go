package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var resultColumns = []string{
	"id", "run_id", "patient_id", "patient_name", "definition_id",
	"test", "date", "score", "max_score", "reason",
}

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) List(ctx context.Context, limit int) ([]Result, error) {
	b := builder()
	sel := b.Select(resultColumns...).From(b.Table("results")).
		OrderBy(entsql.Desc("date"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}

	var out []Result
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

func (r *resultRepo) ListByPatient(ctx context.Context, patientID string) ([]Result, error) {
	b := builder()
	sel := b.Select(resultColumns...).From(b.Table("results")).
		Where(entsql.EQ("patient_id", patientID)).
		OrderBy(entsql.Desc("date"), entsql.Desc("id"))

	var out []Result
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("list results for %s: %w", patientID, err)
	}
	return out, nil
}

func (r *resultRepo) MonthlyTrend(ctx context.Context) ([]MonthlyScore, error) {
	b := builder()
	sel := b.Select(
		entsql.As("substr(`date`, 1, 7)", "month"),
		"test",
		entsql.As("AVG(`score`)", "average"),
		entsql.As(entsql.Count("*"), "count"),
	).From(b.Table("results")).
		GroupBy("month", "test").
		OrderBy(entsql.Asc("month"), entsql.Asc("test"))

	var out []MonthlyScore
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	return out, nil
}

func (r *resultRepo) Distribution(ctx context.Context) ([]TestCount, error) {
	b := builder()
	sel := b.Select("test", entsql.As(entsql.Count("*"), "count")).
		From(b.Table("results")).
		GroupBy("test").
		OrderBy(entsql.Desc("count"), entsql.Asc("test"))

	var out []TestCount
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("distribution: %w", err)
	}
	return out, nil
}

func (r *resultRepo) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	var (
		s   Summary
		err error
	)
	if s.Patients, err = count(ctx, r.db, "patients", nil); err != nil {
		return nil, err
	}
	if s.Assessments, err = count(ctx, r.db, "results", nil); err != nil {
		return nil, err
	}
	if s.PendingReports, err = count(ctx, r.db, "reports", entsql.EQ("status", ReportPending)); err != nil {
		return nil, err
	}
	month := now.Format("2006-01")
	if s.ThisMonth, err = count(ctx, r.db, "results", entsql.HasPrefix("date", month)); err != nil {
		return nil, err
	}

	b := builder()
	sel := b.Select(entsql.As("COALESCE(AVG(100.0 * `score` / `max_score`), 0)", "average")).
		From(b.Table("results")).
		Where(entsql.GT("max_score", 0))
	var avg []float64
	if err := selectAll(ctx, r.db, sel, &avg); err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	if len(avg) > 0 {
		s.AveragePercent = avg[0]
	}
	return &s, nil
}

// insertResult appends a result row.
func insertResult(ctx context.Context, q querier, res Result) error {
	_, err := exec(ctx, q, builder().Insert("results").
		Columns("run_id", "patient_id", "patient_name", "definition_id", "test", "date", "score", "max_score", "reason").
		Values(res.RunID, res.PatientID, res.PatientName, res.DefinitionID, res.Test, res.Date, res.Score, res.MaxScore, res.Reason))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}
