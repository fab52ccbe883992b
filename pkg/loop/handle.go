package loop

import (
	"sync/atomic"
	"time"
)

// Handle is the token returned when a callback is scheduled. A callback
// that has fired or been cancelled never fires again.
type Handle interface {
	// Cancel prevents the callback from firing. It reports whether this call
	// cancelled it; cancelling twice, or after it fired, is a no-op.
	Cancel() bool
	Fired() bool
	Cancelled() bool
}

// Scheduler runs callbacks on a cooperative loop after a minimum delay.
// Schedule is safe to call from any goroutine.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// Terminator lets components hook the loop's termination event.
type Terminator interface {
	OnTerminate(fn func())
}

const (
	timerPending int32 = iota
	timerFired
	timerCancelled
)

// Timer is the Handle implementation shared by schedulers. A scheduler must
// call Claim right before running the callback and skip it when Claim
// returns false.
type Timer struct {
	state atomic.Int32
}

func NewTimer() *Timer {
	return &Timer{}
}

func (t *Timer) Cancel() bool {
	return t.state.CompareAndSwap(timerPending, timerCancelled)
}

// Claim moves the timer to fired. Only the first Claim of a pending timer succeeds.
func (t *Timer) Claim() bool {
	return t.state.CompareAndSwap(timerPending, timerFired)
}

func (t *Timer) Fired() bool {
	return t.state.Load() == timerFired
}

func (t *Timer) Cancelled() bool {
	return t.state.Load() == timerCancelled
}

func (t *Timer) pending() bool {
	return t.state.Load() == timerPending
}
