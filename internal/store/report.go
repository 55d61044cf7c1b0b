package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

var reportColumns = []string{
	"id", "run_id", "patient_id", "patient_name", "definition_id", "test", "date",
	"score", "max_score", "doctor", "status", "notes", "narrative", "template",
}

type reportRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func filterPredicate(f ReportFilter) *entsql.Predicate {
	switch f {
	case FilterMMSE:
		return entsql.In("definition_id", "mmse", "mmse-self")
	case FilterMoCA:
		return entsql.EQ("definition_id", "moca")
	case FilterClock:
		return entsql.EQ("definition_id", "clock")
	case FilterPending:
		return entsql.EQ("status", ReportPending)
	case FilterGenerated:
		return entsql.EQ("status", ReportGenerated)
	}
	return nil
}

func (r *reportRepo) List(ctx context.Context, filter ReportFilter, search string) ([]Report, error) {
	b := builder()
	sel := b.Select(reportColumns...).From(b.Table("reports")).
		OrderBy(entsql.Desc("date"), entsql.Desc("CAST(`id` AS INTEGER)"))
	if p := filterPredicate(filter); p != nil {
		sel.Where(p)
	}
	if search = strings.TrimSpace(search); search != "" {
		sel.Where(entsql.Or(
			entsql.ContainsFold("patient_name", search),
			entsql.ContainsFold("test", search),
			entsql.ContainsFold("doctor", search),
		))
	}

	var out []Report
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

func (r *reportRepo) Get(ctx context.Context, id string) (*Report, error) {
	return getReport(ctx, r.db, id)
}

func (r *reportRepo) ListByPatient(ctx context.Context, patientID string) ([]Report, error) {
	b := builder()
	sel := b.Select(reportColumns...).From(b.Table("reports")).
		Where(entsql.EQ("patient_id", patientID)).
		OrderBy(entsql.Desc("date"), entsql.Desc("CAST(`id` AS INTEGER)"))

	var out []Report
	if err := selectAll(ctx, r.db, sel, &out); err != nil {
		return nil, fmt.Errorf("list reports for %s: %w", patientID, err)
	}
	for i := range out {
		cats, err := listCategories(ctx, r.db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Categories = cats
	}
	return out, nil
}

func (r *reportRepo) MarkGenerated(ctx context.Context, id, narrative, template string) error {
	res, err := exec(ctx, r.db, builder().Update("reports").
		Set("status", ReportGenerated).
		Set("narrative", narrative).
		Set("template", template).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("mark report %s generated: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}

func getReport(ctx context.Context, q querier, id string) (*Report, error) {
	b := builder()
	sel := b.Select(reportColumns...).From(b.Table("reports")).Where(entsql.EQ("id", id))

	var out []Report
	if err := selectAll(ctx, q, sel, &out); err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	rep := &out[0]
	cats, err := listCategories(ctx, q, id)
	if err != nil {
		return nil, err
	}
	rep.Categories = cats
	return rep, nil
}

func listCategories(ctx context.Context, q querier, reportID string) ([]Category, error) {
	b := builder()
	sel := b.Select("name", "score", "max_score").From(b.Table("report_categories")).
		Where(entsql.EQ("report_id", reportID)).
		OrderBy(entsql.Asc("position"))

	var out []Category
	if err := selectAll(ctx, q, sel, &out); err != nil {
		return nil, fmt.Errorf("list categories for %s: %w", reportID, err)
	}
	return out, nil
}

// insertReport inserts a report and its categories.
func insertReport(ctx context.Context, q querier, rep *Report) error {
	_, err := exec(ctx, q, builder().Insert("reports").
		Columns(reportColumns...).
		Values(rep.ID, rep.RunID, rep.PatientID, rep.PatientName, rep.DefinitionID, rep.Test, rep.Date,
			rep.Score, rep.MaxScore, rep.Doctor, rep.Status, rep.Notes, rep.Narrative, rep.Template))
	if err != nil {
		return fmt.Errorf("insert report %s: %w", rep.ID, err)
	}
	if len(rep.Categories) == 0 {
		return nil
	}

	ins := builder().Insert("report_categories").Columns("report_id", "position", "name", "score", "max_score")
	for i, c := range rep.Categories {
		ins.Values(rep.ID, i, c.Name, c.Score, c.MaxScore)
	}
	if _, err := exec(ctx, q, ins); err != nil {
		return fmt.Errorf("insert categories for %s: %w", rep.ID, err)
	}
	return nil
}
