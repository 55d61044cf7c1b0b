package runner

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/cogniscreen/internal/assessment"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)}
}

func newSelfMMSE(clock *fakeClock) *Runner {
	return New(assessment.SelfMMSE(clock.Now()), Options{PatientID: "P001", Now: clock.Now})
}

func TestGoNext_ReachesLastSection(t *testing.T) {
	for _, def := range []*assessment.Definition{assessment.MMSE(), assessment.MoCA(), assessment.Clock()} {
		r := New(def, Options{})
		for i := 0; i < r.SectionCount()-1; i++ {
			r.GoNext()
		}
		if r.Index() != r.SectionCount()-1 {
			t.Errorf("%s: index = %d, want %d", def.ID, r.Index(), r.SectionCount()-1)
		}
		if r.Completed() {
			t.Errorf("%s: should not complete before leaving the last section", def.ID)
		}
	}
}

func TestGoNext_FromLastCompletes(t *testing.T) {
	clock := newClock()
	r := newSelfMMSE(clock)
	r.GoTo(r.SectionCount() - 1)
	r.GoNext()

	if !r.Completed() {
		t.Fatal("expected completion")
	}
	if r.Reason() != ReasonManual {
		t.Errorf("reason = %q, want manual", r.Reason())
	}
	if !r.Countdown().Stopped() {
		t.Error("countdown should stop on completion")
	}

	// Further navigation is a no-op.
	idx := r.Index()
	r.GoNext()
	r.GoPrevious()
	r.GoTo(0)
	if r.Index() != idx {
		t.Errorf("index moved after completion: %d -> %d", idx, r.Index())
	}
}

func TestGoPrevious_ClampsAtZero(t *testing.T) {
	r := New(assessment.MoCA(), Options{})
	r.GoPrevious()
	if r.Index() != 0 {
		t.Errorf("index = %d, want 0", r.Index())
	}
	r.GoNext()
	r.GoNext()
	r.GoPrevious()
	if r.Index() != 1 {
		t.Errorf("index = %d, want 1", r.Index())
	}
}

func TestGoTo_Clamps(t *testing.T) {
	r := New(assessment.Clock(), Options{})
	r.GoTo(99)
	if r.Index() != 2 {
		t.Errorf("index = %d, want 2", r.Index())
	}
	r.GoTo(-3)
	if r.Index() != 0 {
		t.Errorf("index = %d, want 0", r.Index())
	}
}

func TestRecordResponse_Errors(t *testing.T) {
	r := New(assessment.MMSE(), Options{})

	if err := r.RecordResponse("nope", assessment.Bool(true)); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("err = %v, want ErrUnknownQuestion", err)
	}
	if err := r.RecordResponse("naming", assessment.Bool(true)); !errors.Is(err, ErrNotAnswerable) {
		t.Errorf("err = %v, want ErrNotAnswerable", err)
	}
	if err := r.RecordResponse("pencil", assessment.Bool(true)); err != nil {
		t.Errorf("sub-question should be answerable: %v", err)
	}

	r.Finish()
	if err := r.RecordResponse("watch", assessment.Bool(true)); !errors.Is(err, ErrCompleted) {
		t.Errorf("err = %v, want ErrCompleted", err)
	}
	if r.Response("watch") != nil {
		t.Error("response recorded after completion")
	}
}

func TestRecordResponse_Overwrites(t *testing.T) {
	clock := newClock()
	r := newSelfMMSE(clock)

	_ = r.RecordResponse("year", assessment.Text("2024"))
	_ = r.RecordResponse("year", assessment.Text("2025"))
	if got, _ := r.ComputeScore(); got != 1 {
		t.Errorf("score = %d, want 1", got)
	}
}

func TestProgress(t *testing.T) {
	clock := newClock()
	r := newSelfMMSE(clock)
	leaves := r.Definition().Leaves()

	if r.Progress() != 0 {
		t.Fatalf("initial progress = %d", r.Progress())
	}

	prev := 0
	for i, q := range leaves {
		var v assessment.Value = assessment.Text("x")
		if q.Kind == assessment.KindMultiChoice {
			v = assessment.List{q.Options[0]}
		}
		if err := r.RecordResponse(q.ID, v); err != nil {
			t.Fatalf("record %s: %v", q.ID, err)
		}
		p := r.Progress()
		if p < prev {
			t.Fatalf("progress decreased from %d to %d", prev, p)
		}
		if p == 100 && i != len(leaves)-1 {
			t.Fatalf("progress reached 100 with %d of %d answered", i+1, len(leaves))
		}
		prev = p
	}
	if prev != 100 {
		t.Errorf("final progress = %d, want 100", prev)
	}

	// Clearing a field un-answers it.
	_ = r.RecordResponse("write", assessment.Text(""))
	if r.Progress() == 100 {
		t.Error("clearing a response should lower progress")
	}
}

func TestProgress_RatedFalseCountsAsAnswered(t *testing.T) {
	r := New(assessment.Clock(), Options{})
	_ = r.RecordResponse("closedContour", assessment.Bool(false))
	if r.Progress() == 0 {
		t.Error("a recorded 'not achieved' mark is still a response")
	}
}

func TestComputeScore_MaxFixed(t *testing.T) {
	tests := []struct {
		def  *assessment.Definition
		want int
	}{
		{assessment.MMSE(), 30},
		{assessment.MoCA(), 30},
		{assessment.Clock(), 10},
	}
	for _, tt := range tests {
		r := New(tt.def, Options{})
		if _, m := r.ComputeScore(); m != tt.want {
			t.Errorf("%s: max = %d, want %d", tt.def.ID, m, tt.want)
		}
		_ = r.RecordResponse(r.Definition().Leaves()[0].ID, assessment.Bool(true))
		if _, m := r.ComputeScore(); m != tt.want {
			t.Errorf("%s: max changed after a response: %d", tt.def.ID, m)
		}
	}
}

func TestTick_TimeoutForcesCompletion(t *testing.T) {
	clock := newClock()
	r := newSelfMMSE(clock)
	r.GoNext() // section 2 of 7
	_ = r.RecordResponse("country", assessment.Text("México"))
	_ = r.RecordResponse("year", assessment.Text("2025"))

	clock.Advance(19 * time.Minute)
	if r.Tick() {
		t.Fatal("completed before the budget ran out")
	}
	if got := FormatRemaining(r.Remaining()); got != "1:00" {
		t.Errorf("remaining = %s, want 1:00", got)
	}

	clock.Advance(time.Minute)
	if !r.Tick() {
		t.Fatal("expected timeout completion")
	}
	if r.Reason() != ReasonTimeout {
		t.Errorf("reason = %q, want timeout", r.Reason())
	}
	if r.Index() != 1 {
		t.Errorf("cursor moved on timeout: %d", r.Index())
	}

	out, err := r.Outcome()
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if out.Total != 2 || out.Max != 30 {
		t.Errorf("outcome score = %d/%d, want 2/30", out.Total, out.Max)
	}
	if r.Tick() {
		t.Error("tick after completion should do nothing")
	}
}

func TestStop_CancelsTimeout(t *testing.T) {
	clock := newClock()
	r := newSelfMMSE(clock)
	clock.Advance(10 * time.Minute)
	r.Stop()

	clock.Advance(time.Hour)
	if r.Tick() {
		t.Error("stopped countdown must not force completion")
	}
	if r.Completed() {
		t.Error("stop should not complete the run")
	}
	if got := FormatRemaining(r.Remaining()); got != "10:00" {
		t.Errorf("remaining = %s, want frozen 10:00", got)
	}
}

func TestTimeLimitOverride(t *testing.T) {
	clock := newClock()
	r := New(assessment.Clock(), Options{Now: clock.Now, TimeLimit: 30 * time.Second})
	clock.Advance(30 * time.Second)
	if !r.Tick() {
		t.Error("expected completion at the overridden limit")
	}
}

func TestOutcome(t *testing.T) {
	clock := newClock()
	r := newSelfMMSE(clock)

	if _, err := r.Outcome(); !errors.Is(err, ErrInProgress) {
		t.Fatalf("err = %v, want ErrInProgress", err)
	}

	_ = r.RecordResponse("command", assessment.List{"He tomado el papel con la mano derecha", "He doblado el papel por la mitad"})
	clock.Advance(90 * time.Second)
	r.Finish()

	out, err := r.Outcome()
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if out.RunID == "" || out.RunID != r.RunID() {
		t.Errorf("run id = %q", out.RunID)
	}
	if out.PatientID != "P001" || out.DefinitionID != assessment.SelfMMSEID {
		t.Errorf("unexpected identity: %+v", out)
	}
	if out.Duration() != 90*time.Second {
		t.Errorf("duration = %s", out.Duration())
	}
	if len(out.Sections) != 7 {
		t.Errorf("sections = %d, want 7", len(out.Sections))
	}

	doc := out.Document()
	if doc.TotalScore != out.Total || doc.MaxScore != 30 {
		t.Errorf("document score = %d/%d", doc.TotalScore, doc.MaxScore)
	}
	if _, ok := doc.Responses["command"].([]string); !ok {
		t.Errorf("command response = %T, want []string", doc.Responses["command"])
	}
	if len(out.Unverified) != 0 {
		t.Errorf("unverified = %v, want none", out.Unverified)
	}
}

func TestOutcomeFlagsUncheckedChoices(t *testing.T) {
	r := newSelfMMSE(newClock())
	if err := r.RecordResponse("season", assessment.Text("Verano")); err != nil {
		t.Fatalf("record: %v", err)
	}
	r.Finish()

	out, err := r.Outcome()
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if len(out.Unverified) != 1 || out.Unverified[0] != "season" {
		t.Errorf("unverified = %v, want [season]", out.Unverified)
	}
	if got := out.Document().Unverified; len(got) != 1 {
		t.Errorf("document unverified = %v", got)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1200 * time.Second, "20:00"},
		{299 * time.Second, "4:59"},
		{500 * time.Millisecond, "0:01"},
		{0, "0:00"},
		{-time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%s) = %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestUrgent(t *testing.T) {
	if Urgent(300 * time.Second) {
		t.Error("exactly 5 minutes is not urgent")
	}
	if !Urgent(299 * time.Second) {
		t.Error("under 5 minutes is urgent")
	}
}
