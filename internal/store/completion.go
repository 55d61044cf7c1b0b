package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"
)

// RecordCompletion stores a finished administration: a result row, a pending
// report with its category breakdown, and the patient's last-test date and
// status. It returns the new report.
func (s *Store) RecordCompletion(ctx context.Context, c Completion) (*Report, error) {
	var rep *Report
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		patient, err := getPatient(ctx, tx, c.PatientID)
		if err != nil {
			return err
		}
		date := c.CompletedAt.Format(DateLayout)

		if err := insertResult(ctx, tx, Result{
			RunID:        c.RunID,
			PatientID:    patient.ID,
			PatientName:  patient.Name,
			DefinitionID: c.DefinitionID,
			Test:         c.Test,
			Date:         date,
			Score:        c.Score,
			MaxScore:     c.MaxScore,
			Reason:       c.Reason,
		}); err != nil {
			return err
		}

		id, err := s.seq.Next(ctx, tx, "reports")
		if err != nil {
			return err
		}
		rep = &Report{
			ID:           id,
			RunID:        c.RunID,
			PatientID:    patient.ID,
			PatientName:  patient.Name,
			DefinitionID: c.DefinitionID,
			Test:         c.Test,
			Date:         date,
			Score:        c.Score,
			MaxScore:     c.MaxScore,
			Doctor:       c.Doctor,
			Status:       ReportPending,
			Categories:   c.Categories,
		}
		if err := insertReport(ctx, tx, rep); err != nil {
			return err
		}

		_, err = exec(ctx, tx, builder().Update("patients").
			Set("last_test", date).
			Set("status", PatientComplete).
			Where(entsql.EQ("id", patient.ID)))
		if err != nil {
			return fmt.Errorf("update patient %s: %w", patient.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}

	s.logger.Info("completion recorded",
		zap.String("run_id", c.RunID),
		zap.String("patient_id", c.PatientID),
		zap.String("report_id", rep.ID),
		zap.Int("score", c.Score),
		zap.Int("max_score", c.MaxScore),
	)
	return rep, nil
}
