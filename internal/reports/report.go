// Package reports turns stored results into readable clinical reports:
// it assembles the report view, renders it through one of the report
// templates, exports it as Markdown or YAML and drafts the narrative,
// either through an LLM or from a fixed template.
package reports

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/runner"
	"github.com/abhisek/cogniscreen/internal/store"
)

// Report is a stored report assembled for display or export.
type Report struct {
	ID           string
	PatientID    string
	PatientName  string
	DefinitionID string
	Test         string
	Date         string
	Doctor       string
	Status       string
	Score        int
	MaxScore     int
	Categories   []store.Category
	Notes        string
	Narrative    *Narrative

	// Template is the template the report was generated with.
	Template string

	// Clinic is printed in the header when set.
	Clinic string

	// History holds the patient's results of the same test up to the report
	// date, oldest first. The last entry is the administration reported on.
	History []store.Result
}

// Build assembles the view of rec. results may hold any of the patient's
// results; only earlier administrations of the same test are kept.
func Build(rec *store.Report, results []store.Result) *Report {
	r := &Report{
		ID:           rec.ID,
		PatientID:    rec.PatientID,
		PatientName:  rec.PatientName,
		DefinitionID: rec.DefinitionID,
		Test:         rec.Test,
		Date:         rec.Date,
		Doctor:       rec.Doctor,
		Status:       rec.Status,
		Score:        rec.Score,
		MaxScore:     rec.MaxScore,
		Categories:   rec.Categories,
		Notes:        strings.TrimSpace(rec.Notes),
		Narrative:    ParseNarrative(rec.Narrative),
		Template:     rec.Template,
	}
	for i := len(results) - 1; i >= 0; i-- {
		res := results[i]
		if res.Test == rec.Test && res.Date <= rec.Date && res.PatientID == rec.PatientID {
			r.History = append(r.History, res)
		}
	}
	return r
}

// Percent returns the score as a percentage of the maximum.
func (r *Report) Percent() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return 100 * float64(r.Score) / float64(r.MaxScore)
}

// Generated reports whether the report has been generated.
func (r *Report) Generated() bool { return r.Status == store.ReportGenerated }

// Previous returns the administration before the one reported on.
func (r *Report) Previous() (store.Result, bool) {
	if len(r.History) < 2 {
		return store.Result{}, false
	}
	return r.History[len(r.History)-2], true
}

// Narrative is the clinical text of a generated report.
type Narrative struct {
	Summary         string   `json:"summary" yaml:"summary"`
	Observations    []string `json:"observations" yaml:"observations"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
	Source          string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// Narrative sources.
const (
	SourceLLM      = "llm"
	SourceTemplate = "template"
)

// ParseNarrative decodes a stored narrative. Text that is not a JSON
// narrative becomes the summary; an empty string yields nil.
func ParseNarrative(s string) *Narrative {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var n Narrative
	if err := json.Unmarshal([]byte(s), &n); err == nil && n.Summary != "" {
		return &n
	}
	return &Narrative{Summary: s}
}

// Encode serialises the narrative for storage.
func (n *Narrative) Encode() string {
	b, err := json.Marshal(n)
	if err != nil {
		return n.Summary
	}
	return string(b)
}

// NewCompletion converts a finished run into the record stored for it.
// Sections without points (MoCA memory trials) carry no category.
func NewCompletion(o *runner.Outcome, def *assessment.Definition, doctor string) store.Completion {
	c := store.Completion{
		RunID:        o.RunID,
		PatientID:    o.PatientID,
		DefinitionID: def.ID,
		Test:         def.Short,
		Score:        o.Total,
		MaxScore:     o.Max,
		Reason:       string(o.Reason),
		Doctor:       doctor,
		CompletedAt:  o.CompletedAt,
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	for _, s := range o.Sections {
		if s.Max == 0 {
			continue
		}
		c.Categories = append(c.Categories, store.Category{Name: s.Title, Score: s.Score, MaxScore: s.Max})
	}
	return c
}
