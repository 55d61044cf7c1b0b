//go:build cucumber

package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/abhisek/cogniscreen/internal/assessment"
)

// TestRunnerScenarios runs the runner feature scenarios.
func TestRunnerScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "runner",
		ScenarioInitializer: InitializeRunnerScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("features", "runner.feature")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeRunnerScenario wires the runner steps.
func InitializeRunnerScenario(ctx *godog.ScenarioContext) {
	state := &runnerScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a "([^"]+)" assessment started in (\d+)$`, state.givenAssessment)
	ctx.Step(`^the response to "([^"]+)" is "([^"]*)"$`, state.whenResponse)
	ctx.Step(`^options (\d+) and (\d+) are selected for "([^"]+)"$`, state.whenOptionsSelected)
	ctx.Step(`^the clinician moves forward (\d+) times$`, state.whenMovesForward)
	ctx.Step(`^(\d+) seconds pass$`, state.whenSecondsPass)
	ctx.Step(`^the question "([^"]+)" scores (\d+) of (\d+)$`, state.thenQuestionScores)
	ctx.Step(`^the cursor is on the last section$`, state.thenCursorOnLast)
	ctx.Step(`^the cursor is on section (\d+)$`, state.thenCursorOn)
	ctx.Step(`^the assessment is still in progress$`, state.thenInProgress)
	ctx.Step(`^the assessment is completed by "([^"]+)"$`, state.thenCompletedBy)
	ctx.Step(`^the maximum score is (\d+)$`, state.thenMaxScore)
	ctx.Step(`^the total score is (\d+) of (\d+)$`, state.thenTotalScore)
}

type runnerScenarioState struct {
	clock  time.Time
	runner *Runner
}

// reset clears scenario state.
func (s *runnerScenarioState) reset() {
	s.clock = time.Time{}
	s.runner = nil
}

func (s *runnerScenarioState) now() time.Time { return s.clock }

func (s *runnerScenarioState) givenAssessment(id string, year int) error {
	s.clock = time.Date(year, 5, 10, 9, 0, 0, 0, time.UTC)
	catalog, err := assessment.DefaultCatalog(s.clock)
	if err != nil {
		return err
	}
	def, ok := catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown definition %q", id)
	}
	s.runner = New(def, Options{Now: s.now})
	return nil
}

func (s *runnerScenarioState) whenResponse(id, value string) error {
	return s.runner.RecordResponse(id, assessment.Text(value))
}

func (s *runnerScenarioState) whenOptionsSelected(a, b int, id string) error {
	return s.runner.RecordResponse(id, assessment.List{fmt.Sprint(a), fmt.Sprint(b)})
}

func (s *runnerScenarioState) whenMovesForward(n int) error {
	for i := 0; i < n; i++ {
		s.runner.GoNext()
	}
	return nil
}

func (s *runnerScenarioState) whenSecondsPass(n int) error {
	s.clock = s.clock.Add(time.Duration(n) * time.Second)
	s.runner.Tick()
	return nil
}

func (s *runnerScenarioState) thenQuestionScores(id string, want, points int) error {
	q, _, ok := s.runner.Definition().Find(id)
	if !ok {
		return fmt.Errorf("question %q not found", id)
	}
	if q.Points != points {
		return fmt.Errorf("question %q is worth %d, want %d", id, q.Points, points)
	}
	if got := assessment.Award(q, s.runner.Response(id)); got != want {
		return fmt.Errorf("question %q scored %d, want %d", id, got, want)
	}
	return nil
}

func (s *runnerScenarioState) thenCursorOnLast() error {
	if !s.runner.IsLast() {
		return fmt.Errorf("cursor on section %d of %d", s.runner.Index()+1, s.runner.SectionCount())
	}
	return nil
}

func (s *runnerScenarioState) thenCursorOn(n int) error {
	if s.runner.Index() != n-1 {
		return fmt.Errorf("cursor on section %d, want %d", s.runner.Index()+1, n)
	}
	return nil
}

func (s *runnerScenarioState) thenInProgress() error {
	if s.runner.Completed() {
		return fmt.Errorf("assessment completed (%s)", s.runner.Reason())
	}
	return nil
}

func (s *runnerScenarioState) thenCompletedBy(reason string) error {
	if !s.runner.Completed() {
		return fmt.Errorf("assessment still in progress")
	}
	if string(s.runner.Reason()) != reason {
		return fmt.Errorf("completed by %q, want %q", s.runner.Reason(), reason)
	}
	return nil
}

func (s *runnerScenarioState) thenMaxScore(want int) error {
	if _, m := s.runner.ComputeScore(); m != want {
		return fmt.Errorf("max score %d, want %d", m, want)
	}
	return nil
}

func (s *runnerScenarioState) thenTotalScore(total, maxScore int) error {
	out, err := s.runner.Outcome()
	if err != nil {
		return err
	}
	if out.Total != total || out.Max != maxScore {
		return fmt.Errorf("score %d/%d, want %d/%d", out.Total, out.Max, total, maxScore)
	}
	return nil
}
