package assessment

import "math"

// Responses maps question IDs to recorded values.
type Responses map[string]Value

// Award returns the points a leaf question earns for value v.
func Award(q Question, v Value) int {
	if IsEmpty(v) {
		return 0
	}

	switch q.Kind {
	case KindRated:
		if Truthy(v) {
			return q.Points
		}
		return 0

	case KindText, KindNumeric:
		if q.Expected == "" {
			return q.Points
		}
		if CheckAnswer(v.String(), q.Expected) {
			return q.Points
		}
		return 0

	case KindDrawing:
		return q.Points

	case KindSingleChoice:
		chosen, ok := matchOption(v.String(), q.Options)
		if !ok {
			return 0
		}
		// Without an expected answer any selection earns the points; the
		// options carry no notion of the correct day, month or season.
		if q.Expected == "" || normalize(chosen) == normalize(q.Expected) {
			return q.Points
		}
		return 0

	case KindMultiChoice:
		return multiChoiceCredit(q, v)
	}
	return 0
}

// multiChoiceCredit awards round(points * selected / options), counting each
// known option once.
func multiChoiceCredit(q Question, v Value) int {
	if len(q.Options) == 0 {
		return 0
	}
	var selected []string
	switch v := v.(type) {
	case List:
		selected = v
	case Text:
		selected = []string{string(v)}
	default:
		return 0
	}

	seen := make(map[string]bool, len(selected))
	for _, s := range selected {
		if opt, ok := matchOption(s, q.Options); ok {
			seen[opt] = true
		}
	}
	credit := float64(q.Points) * float64(len(seen)) / float64(len(q.Options))
	return int(math.Round(credit))
}

// ScoreQuestion scores a top-level question, summing sub-questions for groups.
func ScoreQuestion(q Question, responses Responses) int {
	if !q.IsGroup() {
		return Award(q, responses[q.ID])
	}
	total := 0
	for _, sq := range q.SubQuestions {
		total += Award(sq, responses[sq.ID])
	}
	return total
}

// SectionScore is the score of one section.
type SectionScore struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Score int    `yaml:"score" json:"score"`
	Max   int    `yaml:"max" json:"max"`
}

// Score computes the total and per-section scores for a set of responses.
// The maximum is always the definition's declared MaxScore.
func Score(def *Definition, responses Responses) (total, maxScore int, sections []SectionScore) {
	sections = make([]SectionScore, 0, len(def.Sections))
	for _, s := range def.Sections {
		ss := SectionScore{ID: s.ID, Title: s.Title, Max: s.Points()}
		for _, q := range s.Questions {
			ss.Score += ScoreQuestion(q, responses)
		}
		total += ss.Score
		sections = append(sections, ss)
	}
	return total, def.MaxScore, sections
}

// Unverified returns the IDs of answered questions that earned points with
// nothing to check the answer against: single-choice items without an
// expected answer. Callers flag these for clinician review.
func Unverified(def *Definition, responses Responses) []string {
	var out []string
	for _, q := range def.Leaves() {
		if q.Kind == KindSingleChoice && q.Expected == "" && Award(q, responses[q.ID]) > 0 {
			out = append(out, q.ID)
		}
	}
	return out
}
