package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// Patient statuses.
const (
	PatientComplete = "Completo"
	PatientPending  = "Pendiente"
)

// Test catalog statuses.
const (
	TestAvailable     = "Disponible"
	TestInDevelopment = "En desarrollo"
)

// Report statuses.
const (
	ReportGenerated = "Generado"
	ReportPending   = "Pendiente"
)

// Patient is a person under follow-up.
type Patient struct {
	ID        string `sql:"id"`
	Name      string `sql:"name"`
	Age       int    `sql:"age"`
	Gender    string `sql:"gender"`
	Diagnosis string `sql:"diagnosis"`
	Email     string `sql:"email"`
	Phone     string `sql:"phone"`
	LastTest  string `sql:"last_test"`
	Status    string `sql:"status"`
}

// TestEntry is one line of the test catalog.
type TestEntry struct {
	ID           string `sql:"id"`
	DefinitionID string `sql:"definition_id"`
	Name         string `sql:"name"`
	Kind         string `sql:"kind"`
	Status       string `sql:"status"`
	Updated      string `sql:"updated"`
}

// Available reports whether the test can be administered.
func (t TestEntry) Available() bool {
	return t.Status == TestAvailable && t.DefinitionID != ""
}

// Result is one scored administration.
type Result struct {
	ID           int64  `sql:"id"`
	RunID        string `sql:"run_id"`
	PatientID    string `sql:"patient_id"`
	PatientName  string `sql:"patient_name"`
	DefinitionID string `sql:"definition_id"`
	Test         string `sql:"test"`
	Date         string `sql:"date"`
	Score        int    `sql:"score"`
	MaxScore     int    `sql:"max_score"`
	Reason       string `sql:"reason"`
}

// Percent returns the score as a percentage of the maximum.
func (r Result) Percent() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return 100 * float64(r.Score) / float64(r.MaxScore)
}

// Category is a per-domain score within a report.
type Category struct {
	Name     string `sql:"name" yaml:"name"`
	Score    int    `sql:"score" yaml:"score"`
	MaxScore int    `sql:"max_score" yaml:"maxScore"`
}

// Report is a result report, pending until generated.
type Report struct {
	ID           string `sql:"id"`
	RunID        string `sql:"run_id"`
	PatientID    string `sql:"patient_id"`
	PatientName  string `sql:"patient_name"`
	DefinitionID string `sql:"definition_id"`
	Test         string `sql:"test"`
	Date         string `sql:"date"`
	Score        int    `sql:"score"`
	MaxScore     int    `sql:"max_score"`
	Doctor       string `sql:"doctor"`
	Status       string `sql:"status"`
	Notes        string `sql:"notes"`
	Narrative    string `sql:"narrative"`
	Template     string `sql:"template"`

	Categories []Category `sql:"-"`
}

// ScoreLabel renders the score as "24/30".
func (r *Report) ScoreLabel() string {
	return fmt.Sprintf("%d/%d", r.Score, r.MaxScore)
}

// Generated reports whether the report was generated.
func (r *Report) Generated() bool { return r.Status == ReportGenerated }

// ReportFilter selects a subset of reports.
type ReportFilter string

const (
	FilterAll       ReportFilter = "all"
	FilterMMSE      ReportFilter = "mmse"
	FilterMoCA      ReportFilter = "moca"
	FilterClock     ReportFilter = "clock"
	FilterPending   ReportFilter = "pending"
	FilterGenerated ReportFilter = "generated"
)

// ReportFilters lists the filters in display order.
var ReportFilters = []ReportFilter{FilterAll, FilterMMSE, FilterMoCA, FilterClock, FilterPending, FilterGenerated}

// Label returns the display name of the filter.
func (f ReportFilter) Label() string {
	switch f {
	case FilterMMSE:
		return "MMSE"
	case FilterMoCA:
		return "MoCA"
	case FilterClock:
		return "Prueba del Reloj"
	case FilterPending:
		return "Pendientes"
	case FilterGenerated:
		return "Generados"
	}
	return "Todos los informes"
}

// ParseReportFilter parses a filter name.
func ParseReportFilter(s string) (ReportFilter, error) {
	for _, f := range ReportFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report filter %q", s)
}

// MonthlyScore is the average score of one test in one month.
type MonthlyScore struct {
	Month   string  `sql:"month"`
	Test    string  `sql:"test"`
	Average float64 `sql:"average"`
	Count   int     `sql:"count"`
}

// TestCount is the number of administrations of one test.
type TestCount struct {
	Test  string `sql:"test"`
	Count int    `sql:"count"`
}

// Summary holds the dashboard metrics.
type Summary struct {
	Patients       int
	Assessments    int
	PendingReports int
	AveragePercent float64
	ThisMonth      int
}

// Completion is a finished administration to be recorded.
type Completion struct {
	RunID        string
	PatientID    string
	DefinitionID string
	Test         string
	Score        int
	MaxScore     int
	Reason       string
	Doctor       string
	CompletedAt  time.Time
	Categories   []Category
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Cost         float64
	RequestBody  string
	ResponseBody string
}

// LLMUsage aggregates recorded LLM requests.
type LLMUsage struct {
	Requests     int     `sql:"requests"`
	InputTokens  int     `sql:"input_tokens"`
	OutputTokens int     `sql:"output_tokens"`
	Cost         float64 `sql:"cost"`
}

// PatientRepo provides access to patients.
type PatientRepo interface {
	// List returns patients whose name or diagnosis contains search
	// (case-insensitive), most recently assessed first.
	List(ctx context.Context, search string) ([]Patient, error)

	// Get returns one patient or ErrNotFound.
	Get(ctx context.Context, id string) (*Patient, error)

	// Count returns the number of patients.
	Count(ctx context.Context) (int, error)
}

// TestRepo provides access to the test catalog.
type TestRepo interface {
	// List returns catalog entries whose name, type or status contains search.
	List(ctx context.Context, search string) ([]TestEntry, error)

	// Get returns one entry or ErrNotFound.
	Get(ctx context.Context, id string) (*TestEntry, error)
}

// ResultRepo provides access to the result history.
type ResultRepo interface {
	// List returns the most recent results first; limit 0 means all.
	List(ctx context.Context, limit int) ([]Result, error)

	// ListByPatient returns one patient's results, most recent first.
	ListByPatient(ctx context.Context, patientID string) ([]Result, error)

	// MonthlyTrend returns the average score per month and test.
	MonthlyTrend(ctx context.Context) ([]MonthlyScore, error)

	// Distribution returns the number of administrations per test.
	Distribution(ctx context.Context) ([]TestCount, error)

	// Summary returns the dashboard metrics as of now.
	Summary(ctx context.Context, now time.Time) (*Summary, error)
}

// ReportRepo provides access to reports.
type ReportRepo interface {
	// List returns reports matching the filter whose patient, test or doctor
	// contains search, newest first.
	List(ctx context.Context, filter ReportFilter, search string) ([]Report, error)

	// Get returns a report with its categories, or ErrNotFound.
	Get(ctx context.Context, id string) (*Report, error)

	// ListByPatient returns one patient's reports, newest first.
	ListByPatient(ctx context.Context, patientID string) ([]Report, error)

	// MarkGenerated stores the narrative and template and marks the report generated.
	MarkGenerated(ctx context.Context, id, narrative, template string) error
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage sums every recorded LLM request.
	LLMUsage(ctx context.Context) (*LLMUsage, error)
}
