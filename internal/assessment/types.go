package assessment

import (
	"fmt"
	"time"
)

// InputKind selects how a question is answered and which correctness rule scores it.
type InputKind int

const (
	// KindRated is an item the administrator marks as achieved or not.
	KindRated InputKind = iota
	KindText
	KindNumeric
	KindSingleChoice
	KindMultiChoice
	// KindDrawing is a drawing task recorded as a text description.
	KindDrawing
)

var kindNames = map[InputKind]string{
	KindRated:        "rated",
	KindText:         "text",
	KindNumeric:      "numeric",
	KindSingleChoice: "single-choice",
	KindMultiChoice:  "multi-choice",
	KindDrawing:      "drawing",
}

func (k InputKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("InputKind(%d)", int(k))
}

// MarshalYAML renders the kind by name.
func (k InputKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Audience says who operates the form during administration.
type Audience string

const (
	AudienceClinician Audience = "clinician"
	AudiencePatient   Audience = "patient"
)

// Question is one scorable item. A question with SubQuestions is a grouping
// question: it is scored through its sub-questions and cannot be answered itself.
type Question struct {
	ID           string     `yaml:"id"`
	Prompt       string     `yaml:"prompt"`
	Points       int        `yaml:"points"`
	Kind         InputKind  `yaml:"kind"`
	Expected     string     `yaml:"expected,omitempty"`
	Options      []string   `yaml:"options,omitempty"`
	Hint         string     `yaml:"hint,omitempty"`
	SubQuestions []Question `yaml:"sub_questions,omitempty"`
}

// IsGroup reports whether the question is scored through sub-questions.
func (q Question) IsGroup() bool {
	return len(q.SubQuestions) > 0
}

// Section is one wizard step.
type Section struct {
	ID           string     `yaml:"id"`
	Title        string     `yaml:"title"`
	Description  string     `yaml:"description,omitempty"`
	Instructions string     `yaml:"instructions,omitempty"`
	MaxPoints    int        `yaml:"max_points,omitempty"`
	Questions    []Question `yaml:"questions"`
}

// Points returns the sum of the section's question points.
func (s Section) Points() int {
	total := 0
	for _, q := range s.Questions {
		total += q.Points
	}
	return total
}

// Definition is the static, immutable content of one assessment instrument.
type Definition struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Short     string        `yaml:"short"`
	Version   string        `yaml:"version"`
	MaxScore  int           `yaml:"max_score"`
	TimeLimit time.Duration `yaml:"time_limit"`
	Audience  Audience      `yaml:"audience"`
	Sections  []Section     `yaml:"sections"`
}

// DefaultTimeLimit is the countdown budget for one administration.
const DefaultTimeLimit = 1200 * time.Second

// Leaves flattens the answerable questions in presentation order.
// Sub-questions take the place of their grouping parent.
func (d *Definition) Leaves() []Question {
	var out []Question
	for _, s := range d.Sections {
		out = append(out, SectionLeaves(s)...)
	}
	return out
}

// SectionLeaves flattens the answerable questions of one section.
func SectionLeaves(s Section) []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.IsGroup() {
			out = append(out, q.SubQuestions...)
			continue
		}
		out = append(out, q)
	}
	return out
}

// Find locates a question or sub-question by ID. The returned section index
// is the step that displays it.
func (d *Definition) Find(id string) (Question, int, bool) {
	for si, s := range d.Sections {
		for _, q := range s.Questions {
			if q.ID == id {
				return q, si, true
			}
			for _, sq := range q.SubQuestions {
				if sq.ID == id {
					return sq, si, true
				}
			}
		}
	}
	return Question{}, -1, false
}

// Points returns the sum of all declared question points.
func (d *Definition) Points() int {
	total := 0
	for _, s := range d.Sections {
		total += s.Points()
	}
	return total
}
