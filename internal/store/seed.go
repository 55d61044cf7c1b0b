package store

import (
	"context"
	"database/sql"
	"fmt"
)

var seedPatients = []Patient{
	{ID: "P001", Name: "María García", Age: 68, Gender: "F", Diagnosis: "Alzheimer temprano", Email: "maria.garcia@ejemplo.com", Phone: "+34 612 345 678", LastTest: "2025-05-10", Status: PatientComplete},
	{ID: "P002", Name: "Carlos López", Age: 72, Gender: "M", Diagnosis: "Deterioro cognitivo leve", LastTest: "2025-05-01", Status: PatientPending},
	{ID: "P003", Name: "Ana Martínez", Age: 65, Gender: "F", Diagnosis: "Evaluación inicial", LastTest: "2025-04-28", Status: PatientComplete},
	{ID: "P004", Name: "Pedro Sánchez", Age: 78, Gender: "M", Diagnosis: "Demencia vascular", LastTest: "2025-04-22", Status: PatientComplete},
	{ID: "P005", Name: "Lucía Rodríguez", Age: 70, Gender: "F", Diagnosis: "Evaluación rutinaria", LastTest: "2025-04-15", Status: PatientPending},
	{ID: "P006", Name: "José Fernández", Age: 75, Gender: "M", Diagnosis: "Deterioro cognitivo leve", LastTest: "2025-04-08", Status: PatientComplete},
	{ID: "P007", Name: "Carmen Díaz", Age: 69, Gender: "F", Diagnosis: "Depresión", LastTest: "2025-04-05", Status: PatientComplete},
	{ID: "P008", Name: "Antonio Moreno", Age: 81, Gender: "M", Diagnosis: "Alzheimer", LastTest: "2025-03-30", Status: PatientComplete},
}

var seedTests = []TestEntry{
	{ID: "1", DefinitionID: "mmse", Name: "Mini-Mental State Examination (MMSE)", Kind: "Evaluación cognitiva", Status: TestAvailable, Updated: "2025-05-15"},
	{ID: "2", DefinitionID: "moca", Name: "Montreal Cognitive Assessment (MoCA)", Kind: "Evaluación cognitiva", Status: TestAvailable, Updated: "2025-05-10"},
	{ID: "3", DefinitionID: "clock", Name: "Prueba del Reloj", Kind: "Evaluación visoespacial", Status: TestAvailable, Updated: "2025-05-12"},
	{ID: "4", Name: "Test de Fluidez Verbal", Kind: "Evaluación del lenguaje", Status: TestInDevelopment, Updated: "2025-04-30"},
	{ID: "5", Name: "Trail Making Test", Kind: "Evaluación de atención", Status: TestInDevelopment, Updated: "2025-04-25"},
}

func seedResult(patientID, definitionID, test, date string, score, maxScore int) Result {
	return Result{PatientID: patientID, DefinitionID: definitionID, Test: test, Date: date, Score: score, MaxScore: maxScore, Reason: "manual"}
}

var seedResults = []Result{
	seedResult("P008", "mmse", "MMSE", "2025-01-14", 21, 30),
	seedResult("P006", "moca", "MoCA", "2025-01-21", 22, 30),
	seedResult("P004", "clock", "Prueba del Reloj", "2025-01-28", 7, 10),
	seedResult("P007", "mmse", "MMSE", "2025-02-11", 26, 30),
	seedResult("P008", "moca", "MoCA", "2025-02-18", 19, 30),
	seedResult("P006", "clock", "Prueba del Reloj", "2025-02-25", 7, 10),
	seedResult("P001", "clock", "Prueba del Reloj", "2025-03-05", 8, 10),
	seedResult("P007", "moca", "MoCA", "2025-03-12", 21, 30),
	seedResult("P008", "mmse", "MMSE", "2025-03-30", 20, 30),
	seedResult("P001", "moca", "MoCA", "2025-04-12", 22, 30),
	seedResult("P004", "clock", "Prueba del Reloj", "2025-04-22", 6, 10),
	seedResult("P003", "moca", "MoCA", "2025-04-28", 25, 30),
	seedResult("P002", "mmse", "MMSE", "2025-05-01", 26, 30),
	seedResult("P001", "mmse", "MMSE", "2025-05-10", 24, 30),
}

var mmseCategories = []Category{
	{Name: "Orientación", Score: 8, MaxScore: 10},
	{Name: "Registro", Score: 3, MaxScore: 3},
	{Name: "Atención y Cálculo", Score: 4, MaxScore: 5},
	{Name: "Recuerdo", Score: 2, MaxScore: 3},
	{Name: "Lenguaje", Score: 7, MaxScore: 9},
}

var seedReports = []Report{
	{ID: "1", PatientID: "P001", DefinitionID: "mmse", Test: "MMSE", Date: "2025-05-15", Score: 24, MaxScore: 30, Doctor: "Dr. Martínez", Status: ReportGenerated,
		Notes:      "La paciente muestra signos de deterioro cognitivo leve. Se recomienda seguimiento en 3 meses.",
		Categories: mmseCategories},
	{ID: "2", PatientID: "P002", DefinitionID: "moca", Test: "MoCA", Date: "2025-05-12", Score: 22, MaxScore: 30, Doctor: "Dr. Ruiz", Status: ReportGenerated},
	{ID: "3", PatientID: "P003", DefinitionID: "clock", Test: "Prueba del Reloj", Date: "2025-05-10", Score: 8, MaxScore: 10, Doctor: "Dr. Martínez", Status: ReportPending},
	{ID: "4", PatientID: "P004", DefinitionID: "mmse", Test: "MMSE", Date: "2025-05-08", Score: 26, MaxScore: 30, Doctor: "Dr. Gómez", Status: ReportGenerated},
	{ID: "5", PatientID: "P005", DefinitionID: "moca", Test: "MoCA", Date: "2025-05-05", Score: 25, MaxScore: 30, Doctor: "Dr. Ruiz", Status: ReportPending},
	{ID: "6", PatientID: "P001", DefinitionID: "moca", Test: "MoCA", Date: "2025-04-12", Score: 22, MaxScore: 30, Doctor: "Dr. Ruiz", Status: ReportGenerated,
		Notes: "Hay dificultades en las áreas de memoria y atención. Propongo comenzar ejercicios cognitivos."},
	{ID: "7", PatientID: "P001", DefinitionID: "clock", Test: "Prueba del Reloj", Date: "2025-03-05", Score: 8, MaxScore: 10, Doctor: "Dr. Martínez", Status: ReportGenerated,
		Notes: "Buena ejecución general, con ligeras dificultades en la ubicación de los números."},
}

// Seed loads the sample clinic data. It expects empty tables.
func (s *Store) Seed(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		names := make(map[string]string, len(seedPatients))

		ins := builder().Insert("patients").Columns(patientColumns...)
		for _, p := range seedPatients {
			ins.Values(p.ID, p.Name, p.Age, p.Gender, p.Diagnosis, p.Email, p.Phone, p.LastTest, p.Status)
			names[p.ID] = p.Name
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("seed patients: %w", err)
		}

		ins = builder().Insert("tests").Columns(testColumns...)
		for _, t := range seedTests {
			ins.Values(t.ID, t.DefinitionID, t.Name, t.Kind, t.Status, t.Updated)
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("seed tests: %w", err)
		}

		for _, r := range seedResults {
			r.PatientName = names[r.PatientID]
			if err := insertResult(ctx, tx, r); err != nil {
				return err
			}
		}

		for _, r := range seedReports {
			r.PatientName = names[r.PatientID]
			if err := insertReport(ctx, tx, &r); err != nil {
				return err
			}
		}
		return s.seq.Reset(ctx, tx, "reports", int64(len(seedReports)+1))
	})
}
