package runner

import (
	"time"

	"github.com/abhisek/cogniscreen/internal/assessment"
)

// Outcome is the result of a completed run.
type Outcome struct {
	RunID        string
	DefinitionID string
	PatientID    string
	Responses    assessment.Responses
	Total        int
	Max          int
	Sections     []assessment.SectionScore
	Reason       Reason
	StartedAt    time.Time
	CompletedAt  time.Time

	// Unverified lists questions scored without a correctness check.
	Unverified []string
}

// Outcome returns the scored result. It fails while the run is in progress.
func (r *Runner) Outcome() (*Outcome, error) {
	if !r.completed {
		return nil, ErrInProgress
	}
	total, maxScore, sections := assessment.Score(r.def, r.responses)
	return &Outcome{
		RunID:        r.runID,
		DefinitionID: r.def.ID,
		PatientID:    r.patientID,
		Responses:    r.Responses(),
		Total:        total,
		Max:          maxScore,
		Sections:     sections,
		Reason:       r.reason,
		StartedAt:    r.startedAt,
		CompletedAt:  r.completedAt,
		Unverified:   assessment.Unverified(r.def, r.responses),
	}, nil
}

// Percent returns the score as a percentage of the maximum.
func (o *Outcome) Percent() float64 {
	if o.Max == 0 {
		return 0
	}
	return 100 * float64(o.Total) / float64(o.Max)
}

// Duration returns how long the run took.
func (o *Outcome) Duration() time.Duration {
	return o.CompletedAt.Sub(o.StartedAt)
}

// Document is the serialisable form of an outcome: responses, totalScore and
// maxScore, plus the per-section breakdown.
type Document struct {
	RunID        string                    `yaml:"runId" json:"runId"`
	DefinitionID string                    `yaml:"definition" json:"definition"`
	PatientID    string                    `yaml:"patientId,omitempty" json:"patientId,omitempty"`
	Responses    map[string]any            `yaml:"responses" json:"responses"`
	TotalScore   int                       `yaml:"totalScore" json:"totalScore"`
	MaxScore     int                       `yaml:"maxScore" json:"maxScore"`
	Sections     []assessment.SectionScore `yaml:"sections" json:"sections"`
	Reason       Reason                    `yaml:"reason" json:"reason"`
	CompletedAt  time.Time                 `yaml:"completedAt" json:"completedAt"`
	Unverified   []string                  `yaml:"unverified,omitempty" json:"unverified,omitempty"`
}

// Document converts the outcome into its serialisable form.
func (o *Outcome) Document() Document {
	responses := make(map[string]any, len(o.Responses))
	for id, v := range o.Responses {
		responses[id] = assessment.Plain(v)
	}
	return Document{
		RunID:        o.RunID,
		DefinitionID: o.DefinitionID,
		PatientID:    o.PatientID,
		Responses:    responses,
		TotalScore:   o.Total,
		MaxScore:     o.Max,
		Sections:     o.Sections,
		Reason:       o.Reason,
		CompletedAt:  o.CompletedAt,
		Unverified:   o.Unverified,
	}
}
