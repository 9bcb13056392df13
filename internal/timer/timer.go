// Package timer implements the per-question countdown.
package timer

import "errors"

// State is the lifecycle state of a Timer.
type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Expired State = "expired"
)

// ErrNotRunning is returned when an operation is not valid in the current state.
var ErrNotRunning = errors.New("timer is not running")

// Timer is a single countdown counter measured in whole seconds.
// The zero value is an idle timer with nothing left on the clock.
type Timer struct {
	remaining int
	state     State
}

// Snapshot is the persisted form of a Timer.
type Snapshot struct {
	Remaining int   `json:"remaining"`
	State     State `json:"state"`
}

// Start sets the counter to limit and starts the countdown. It returns true when
// the limit leaves nothing to count down and the timer is already expired.
func (t *Timer) Start(limit int) bool {
	if limit <= 0 {
		t.remaining = 0
		t.state = Expired
		return true
	}

	t.remaining = limit
	t.state = Running
	return false
}

// Tick decrements a running counter by one second. It reports expired exactly
// once, on the tick that reaches zero.
func (t *Timer) Tick() (bool, error) {
	if t.State() != Running {
		return false, ErrNotRunning
	}

	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = Expired
		return true, nil
	}

	return false, nil
}

// Stop halts a running or expired timer. The counter is left as is.
func (t *Timer) Stop() error {
	if t.State() == Idle {
		return ErrNotRunning
	}

	t.state = Idle
	return nil
}

// Reset puts the timer back to idle with limit on the clock.
func (t *Timer) Reset(limit int) {
	if limit < 0 {
		limit = 0
	}
	t.remaining = limit
	t.state = Idle
}

// Remaining returns the seconds left on the clock.
func (t *Timer) Remaining() int {
	return t.remaining
}

// State returns the current lifecycle state.
func (t *Timer) State() State {
	if t.state == "" {
		return Idle
	}
	return t.state
}

// Active reports whether the countdown is running.
func (t *Timer) Active() bool {
	return t.State() == Running
}

func (t *Timer) Snapshot() Snapshot {
	return Snapshot{Remaining: t.remaining, State: t.State()}
}

// Restore replaces the timer state with a persisted snapshot. Unknown states
// and negative counters fall back to idle and zero.
func Restore(s Snapshot) Timer {
	t := Timer{remaining: s.Remaining, state: s.State}
	if t.remaining < 0 {
		t.remaining = 0
	}

	switch t.state {
	case Idle, Running, Expired:
	default:
		t.state = Idle
	}

	if t.state == Running && t.remaining == 0 {
		t.state = Expired
	}

	return t
}
