// Package timer implements the start/stop bookkeeping shared by tasks and
// subtasks. A Clock is a value; every transition returns the next Clock and
// whether anything changed, so callers persist only real transitions.
package timer

import "time"

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Clock is the persisted timer state of a task or subtask.
type Clock struct {
	StartedAt    *time.Time
	StoppedAt    *time.Time
	TotalSeconds int64
}

func (c Clock) State() State {
	switch {
	case c.StartedAt != nil:
		return StateRunning
	case c.StoppedAt != nil || c.TotalSeconds > 0:
		return StateStopped
	default:
		return StateIdle
	}
}

func (c Clock) Running() bool {
	return c.StartedAt != nil
}

// Start begins a new interval. Starting a running clock leaves it untouched
// and reports started=false.
func (c Clock) Start(now time.Time) (next Clock, started bool) {
	if c.Running() {
		return c, false
	}
	start := now
	c.StartedAt = &start
	return c, true
}

// Stop closes the running interval and adds its whole seconds to the total.
// Stopping a clock that is not running is a no-op and reports stopped=false.
func (c Clock) Stop(now time.Time) (next Clock, stopped bool) {
	if !c.Running() {
		return c, false
	}
	c.TotalSeconds += elapsedSeconds(*c.StartedAt, now)
	stop := now
	c.StartedAt = nil
	c.StoppedAt = &stop
	return c, true
}

// Elapsed is the accumulated total plus the in-flight interval, if any.
func (c Clock) Elapsed(now time.Time) int64 {
	if !c.Running() {
		return c.TotalSeconds
	}
	return c.TotalSeconds + elapsedSeconds(*c.StartedAt, now)
}

// AddSeconds adds manually reported time. Negative amounts are ignored.
func (c Clock) AddSeconds(seconds int64) Clock {
	if seconds > 0 {
		c.TotalSeconds += seconds
	}
	return c
}

// elapsedSeconds floors the interval to whole seconds; clock skew counts as 0.
func elapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
