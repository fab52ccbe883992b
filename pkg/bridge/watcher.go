package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kubev2v/loopbridge/pkg/loop"
)

// DefaultWatchInterval is the delay between two liveness checks when none is configured.
const DefaultWatchInterval = 200 * time.Millisecond

// Liveness is anything that can tell whether it is still executing.
type Liveness interface {
	Alive() bool
}

type WatchState int32

const (
	WatchPolling WatchState = iota
	WatchNotified
	WatchStopped
)

func (s WatchState) String() string {
	switch s {
	case WatchPolling:
		return "polling"
	case WatchNotified:
		return "notified"
	case WatchStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Watcher polls a worker's liveness from the loop and runs a terminal action
// exactly once after the worker has finished. Detection lags the real end
// by at most one interval.
type Watcher struct {
	sched      loop.Scheduler
	target     Liveness
	interval   time.Duration
	onFinished func()

	mu     sync.Mutex
	state  WatchState
	handle loop.Handle
	done   chan struct{}
	checks atomic.Uint64
}

// Watch schedules the first check after interval and returns the running watcher.
func Watch(sched loop.Scheduler, target Liveness, interval time.Duration, onFinished func()) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	w := &Watcher{
		sched:      sched,
		target:     target,
		interval:   interval,
		onFinished: onFinished,
		done:       make(chan struct{}),
	}

	w.mu.Lock()
	w.handle = sched.Schedule(interval, w.check)
	w.mu.Unlock()

	return w
}

func (w *Watcher) check() {
	w.checks.Add(1)

	if w.target.Alive() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.state == WatchPolling {
			// not ready yet, check again soon
			w.handle = w.sched.Schedule(w.interval, w.check)
		}
		return
	}

	w.mu.Lock()
	if w.state != WatchPolling {
		w.mu.Unlock()
		return
	}
	w.state = WatchNotified
	w.handle = nil
	close(w.done)
	w.mu.Unlock()

	if w.onFinished != nil {
		w.onFinished()
	}
}

// Stop cancels the next check without running the terminal action.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != WatchPolling {
		return
	}
	w.state = WatchStopped
	if w.handle != nil {
		w.handle.Cancel()
	}
	close(w.done)
}

func (w *Watcher) State() WatchState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Checks returns how many liveness checks have run.
func (w *Watcher) Checks() uint64 { return w.checks.Load() }

// Done is closed once the watcher has notified or been stopped.
func (w *Watcher) Done() <-chan struct{} { return w.done }
