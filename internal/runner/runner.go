// Package runner administers one assessment: it walks the sections of a
// definition, records responses, tracks progress and the countdown, and
// produces the scored outcome on completion.
package runner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/assessment"
)

var (
	// ErrUnknownQuestion is returned when recording a response for an ID the
	// definition does not contain.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrNotAnswerable is returned for grouping questions; their
	// sub-questions take the responses.
	ErrNotAnswerable = errors.New("question is not answerable")

	// ErrCompleted is returned when recording after the run completed.
	ErrCompleted = errors.New("assessment already completed")

	// ErrInProgress is returned when asking for the outcome of a running assessment.
	ErrInProgress = errors.New("assessment still in progress")
)

// Reason records how a run reached completion.
type Reason string

const (
	ReasonManual  Reason = "manual"
	ReasonTimeout Reason = "timeout"
)

// Options configure a new run.
type Options struct {
	// PatientID identifies who is being assessed. Optional.
	PatientID string

	// TimeLimit overrides the definition's time limit when positive.
	TimeLimit time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives completion events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Runner holds the state of one assessment instance.
type Runner struct {
	def       *assessment.Definition
	leaves    []assessment.Question
	runID     string
	patientID string

	current   int
	responses assessment.Responses
	completed bool
	reason    Reason

	countdown   *Countdown
	startedAt   time.Time
	completedAt time.Time

	now    func() time.Time
	logger *zap.Logger
}

// New starts a run of def. The countdown starts immediately.
func New(def *assessment.Definition, opts Options) *Runner {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := opts.TimeLimit
	if limit <= 0 {
		limit = def.TimeLimit
	}
	if limit <= 0 {
		limit = assessment.DefaultTimeLimit
	}

	start := now()
	return &Runner{
		def:       def,
		leaves:    def.Leaves(),
		runID:     uuid.New().String(),
		patientID: opts.PatientID,
		responses: make(assessment.Responses),
		countdown: NewCountdown(limit, start),
		startedAt: start,
		now:       now,
		logger:    logger,
	}
}

// Definition returns the definition being administered.
func (r *Runner) Definition() *assessment.Definition { return r.def }

// RunID returns the unique ID of this run.
func (r *Runner) RunID() string { return r.runID }

// PatientID returns the patient being assessed.
func (r *Runner) PatientID() string { return r.patientID }

// Index returns the current section index.
func (r *Runner) Index() int { return r.current }

// SectionCount returns the number of sections.
func (r *Runner) SectionCount() int { return len(r.def.Sections) }

// Current returns the current section.
func (r *Runner) Current() assessment.Section { return r.def.Sections[r.current] }

// IsLast reports whether the cursor is on the last section.
func (r *Runner) IsLast() bool { return r.current == len(r.def.Sections)-1 }

// Completed reports whether the run reached its terminal state.
func (r *Runner) Completed() bool { return r.completed }

// Reason returns how the run completed, or "" while in progress.
func (r *Runner) Reason() Reason { return r.reason }

// Countdown returns the run's countdown.
func (r *Runner) Countdown() *Countdown { return r.countdown }

// Remaining returns the time left on the countdown.
func (r *Runner) Remaining() time.Duration { return r.countdown.Remaining(r.now()) }

// Response returns the recorded value for a question, or nil.
func (r *Runner) Response(id string) assessment.Value { return r.responses[id] }

// Responses returns a copy of the recorded responses.
func (r *Runner) Responses() assessment.Responses {
	out := make(assessment.Responses, len(r.responses))
	for k, v := range r.responses {
		out[k] = v
	}
	return out
}

// RecordResponse stores or overwrites the response for a question. An empty
// value clears the response.
func (r *Runner) RecordResponse(id string, v assessment.Value) error {
	if r.completed {
		return ErrCompleted
	}
	q, _, ok := r.def.Find(id)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrUnknownQuestion, id, r.def.ID)
	}
	if q.IsGroup() {
		return fmt.Errorf("%w: %q groups sub-questions", ErrNotAnswerable, id)
	}

	if assessment.IsEmpty(v) {
		delete(r.responses, id)
		return nil
	}
	r.responses[id] = v
	return nil
}

// GoNext advances to the next section, or completes the run from the last
// one. It does nothing once completed.
func (r *Runner) GoNext() {
	if r.completed {
		return
	}
	if r.current < len(r.def.Sections)-1 {
		r.current++
		return
	}
	r.complete(ReasonManual)
}

// GoPrevious moves back one section, stopping at the first.
func (r *Runner) GoPrevious() {
	if r.completed || r.current == 0 {
		return
	}
	r.current--
}

// GoTo jumps to section i, clamped to the valid range.
func (r *Runner) GoTo(i int) {
	if r.completed {
		return
	}
	r.current = max(0, min(i, len(r.def.Sections)-1))
}

// Finish completes the run from any section.
func (r *Runner) Finish() {
	if r.completed {
		return
	}
	r.complete(ReasonManual)
}

// Tick advances the countdown to the current time and forces completion when
// it expired. It reports whether this tick completed the run.
func (r *Runner) Tick() bool {
	if r.completed || r.countdown.Stopped() {
		return false
	}
	if !r.countdown.Expired(r.now()) {
		return false
	}
	r.complete(ReasonTimeout)
	return true
}

// Stop cancels the countdown without completing the run. Used when the
// screen is torn down.
func (r *Runner) Stop() {
	r.countdown.Stop(r.now())
}

// Progress returns the percentage of answerable questions with a response.
func (r *Runner) Progress() int {
	if len(r.leaves) == 0 {
		return 100
	}
	answered := 0
	for _, q := range r.leaves {
		if !assessment.IsEmpty(r.responses[q.ID]) {
			answered++
		}
	}
	return int(math.Round(100 * float64(answered) / float64(len(r.leaves))))
}

// Answered reports whether every answerable question of section i has a response.
func (r *Runner) Answered(i int) bool {
	for _, q := range assessment.SectionLeaves(r.def.Sections[i]) {
		if assessment.IsEmpty(r.responses[q.ID]) {
			return false
		}
	}
	return true
}

// ComputeScore returns the total score and the fixed maximum for the
// responses recorded so far.
func (r *Runner) ComputeScore() (total, maxScore int) {
	total, maxScore, _ = assessment.Score(r.def, r.responses)
	return total, maxScore
}

func (r *Runner) complete(reason Reason) {
	now := r.now()
	r.countdown.Stop(now)
	r.completed = true
	r.reason = reason
	r.completedAt = now

	total, maxScore := r.ComputeScore()
	r.logger.Info("assessment completed",
		zap.String("run_id", r.runID),
		zap.String("definition", r.def.ID),
		zap.String("patient_id", r.patientID),
		zap.String("reason", string(reason)),
		zap.Int("total", total),
		zap.Int("max", maxScore),
		zap.Int("section", r.current),
		zap.Duration("elapsed", now.Sub(r.startedAt)),
	)
	if ids := assessment.Unverified(r.def, r.responses); len(ids) > 0 {
		r.logger.Warn("choice answers scored without an expected answer",
			zap.String("run_id", r.runID), zap.Strings("questions", ids))
	}
}
