package assessment

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Validate checks a definition's structural invariants and returns every
// problem found as a single error.
func Validate(def *Definition) error {
	var errs []string

	if def.ID == "" {
		errs = append(errs, "definition has empty ID")
	}
	if !semver.IsValid(def.Version) {
		errs = append(errs, fmt.Sprintf("version %q is not a valid semantic version", def.Version))
	}
	if def.TimeLimit < 0 {
		errs = append(errs, fmt.Sprintf("time limit must be >= 0, got %s", def.TimeLimit))
	}
	if len(def.Sections) == 0 {
		errs = append(errs, "definition has no sections")
	}

	ids := make(map[string]string)
	claim := func(id, where string) {
		if id == "" {
			errs = append(errs, fmt.Sprintf("%s: empty question ID", where))
			return
		}
		if prev, dup := ids[id]; dup {
			errs = append(errs, fmt.Sprintf("duplicate question ID %q (%s and %s)", id, prev, where))
			return
		}
		ids[id] = where
	}

	sectionIDs := make(map[string]bool, len(def.Sections))
	for _, s := range def.Sections {
		if sectionIDs[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate section ID %q", s.ID))
		}
		sectionIDs[s.ID] = true

		if len(s.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("section %q has no questions", s.ID))
		}
		if s.MaxPoints != 0 && s.MaxPoints != s.Points() {
			errs = append(errs, fmt.Sprintf("section %q declares %d points but its questions sum to %d", s.ID, s.MaxPoints, s.Points()))
		}

		for _, q := range s.Questions {
			where := fmt.Sprintf("section %q", s.ID)
			claim(q.ID, where)

			if !q.IsGroup() {
				errs = append(errs, checkLeaf(q)...)
				continue
			}

			sum := 0
			for _, sq := range q.SubQuestions {
				claim(sq.ID, fmt.Sprintf("question %q", q.ID))
				if sq.IsGroup() {
					errs = append(errs, fmt.Sprintf("question %q: sub-question %q nests further sub-questions", q.ID, sq.ID))
				}
				errs = append(errs, checkLeaf(sq)...)
				sum += sq.Points
			}
			if sum != q.Points {
				errs = append(errs, fmt.Sprintf("question %q declares %d points but its sub-questions sum to %d", q.ID, q.Points, sum))
			}
		}
	}

	if got := def.Points(); got != def.MaxScore {
		errs = append(errs, fmt.Sprintf("question points sum to %d, expected max score %d", got, def.MaxScore))
	}

	if len(errs) > 0 {
		return fmt.Errorf("assessment %q validation failed:\n  %s", def.ID, strings.Join(errs, "\n  "))
	}
	return nil
}

// checkLeaf validates the fields of an answerable question.
func checkLeaf(q Question) []string {
	var errs []string
	prefix := fmt.Sprintf("question %q", q.ID)

	if q.Points < 0 {
		errs = append(errs, fmt.Sprintf("%s: points must be >= 0, got %d", prefix, q.Points))
	}

	switch q.Kind {
	case KindSingleChoice, KindMultiChoice:
		if len(q.Options) == 0 {
			errs = append(errs, fmt.Sprintf("%s: %s question has no options", prefix, q.Kind))
		}
		if q.Expected != "" {
			if _, ok := matchOption(q.Expected, q.Options); !ok {
				errs = append(errs, fmt.Sprintf("%s: expected answer %q is not an option", prefix, q.Expected))
			}
		}
		if q.Kind == KindMultiChoice && q.Expected != "" {
			errs = append(errs, fmt.Sprintf("%s: multi-choice questions are scored proportionally and take no expected answer", prefix))
		}
	case KindRated, KindDrawing:
		if q.Expected != "" {
			errs = append(errs, fmt.Sprintf("%s: %s question cannot carry an expected answer", prefix, q.Kind))
		}
	case KindText, KindNumeric:
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown input kind %s", prefix, q.Kind))
	}
	return errs
}
