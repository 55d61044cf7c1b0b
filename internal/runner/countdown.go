package runner

import (
	"fmt"
	"time"
)

// UrgentThreshold is the remaining time below which the countdown is shown as urgent.
const UrgentThreshold = 5 * time.Minute

// Countdown is the wall-clock budget of one assessment. It is advanced by
// explicit ticks rather than a background timer, so stopping it leaves
// nothing running.
type Countdown struct {
	budget   time.Duration
	deadline time.Time

	stopped bool
	frozen  time.Duration
}

// NewCountdown starts a countdown of the given budget at start.
func NewCountdown(budget time.Duration, start time.Time) *Countdown {
	return &Countdown{budget: budget, deadline: start.Add(budget)}
}

// Budget returns the total time allowed.
func (c *Countdown) Budget() time.Duration { return c.budget }

// Remaining returns the time left at now, never negative. A stopped
// countdown reports the time that was left when it stopped.
func (c *Countdown) Remaining(now time.Time) time.Duration {
	if c.stopped {
		return c.frozen
	}
	left := c.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the budget ran out at now.
func (c *Countdown) Expired(now time.Time) bool {
	return !c.stopped && c.Remaining(now) == 0
}

// Stop cancels the countdown. Subsequent ticks are ignored.
func (c *Countdown) Stop(now time.Time) {
	if c.stopped {
		return
	}
	c.frozen = c.Remaining(now)
	c.stopped = true
}

// Stopped reports whether the countdown was cancelled.
func (c *Countdown) Stopped() bool { return c.stopped }

// FormatRemaining renders a duration as m:ss, rounding partial seconds up so
// the display reaches 0:00 exactly when the budget expires.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Urgent reports whether d is below UrgentThreshold.
func Urgent(d time.Duration) bool {
	return d < UrgentThreshold
}
