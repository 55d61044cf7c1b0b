package assessment

import (
	"time"

	"github.com/abhisek/cogniscreen/internal/runner"
	"github.com/abhisek/cogniscreen/internal/store"
)

// tickMsg is sent every second to advance the countdown of one run.
type tickMsg struct {
	RunID string
	At    time.Time
}

// completedMsg is sent once the finished run has been recorded.
type completedMsg struct {
	Outcome *runner.Outcome
	Report  *store.Report
	Err     error
}
