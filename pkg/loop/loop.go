package loop

import (
	"cmp"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/addrummond/heap"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
)

// ErrLoopAlreadyRunning is returned when Run is called on a loop that is already running.
var ErrLoopAlreadyRunning = errors.New("loop: already running")

type entry struct {
	when  time.Time
	seq   uint64
	timer *Timer
	fn    func()
}

func (a *entry) Cmp(b *entry) int {
	if c := a.when.Compare(b.when); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Loop is a cooperative single-threaded loop. Callbacks run one at a time,
// to completion, on the goroutine that called Run. Other goroutines only
// reach loop-owned state by scheduling a callback.
type Loop struct {
	mu         sync.Mutex
	timers     heap.Heap[entry, heap.Min]
	queued     int
	seq        uint64
	terminated bool
	hooks      []func()

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool
	ran      atomic.Uint64
}

func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Schedule runs fn on the loop after at least delay. Scheduling on a
// terminated loop returns a handle that is already cancelled.
func (l *Loop) Schedule(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	t := NewTimer()

	l.mu.Lock()
	if l.terminated {
		l.mu.Unlock()
		t.Cancel()
		return t
	}
	l.seq++
	heap.PushOrderable(&l.timers, entry{
		when:  time.Now().Add(delay),
		seq:   l.seq,
		timer: t,
		fn:    fn,
	})
	l.queued++
	l.mu.Unlock()

	l.signal()
	return t
}

// Post runs fn on the loop as soon as possible, after callbacks already due.
func (l *Loop) Post(fn func()) Handle {
	return l.Schedule(0, fn)
}

// Cancel cancels h. It is idempotent.
func (l *Loop) Cancel(h Handle) bool {
	if h == nil {
		return false
	}
	return h.Cancel()
}

// OnTerminate registers fn to run on the loop goroutine once the loop stops,
// before Run returns. Hooks run in registration order. Registering on a
// terminated loop runs fn immediately on the caller.
func (l *Loop) OnTerminate(fn func()) {
	l.mu.Lock()
	if l.terminated {
		l.mu.Unlock()
		l.invoke(fn)
		return
	}
	l.hooks = append(l.hooks, fn)
	l.mu.Unlock()
}

// Pending returns the number of callbacks waiting in the timer heap,
// including cancelled ones not yet discarded.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queued
}

// Ran returns the number of callbacks run so far.
func (l *Loop) Ran() uint64 {
	return l.ran.Load()
}

// Stop asks the loop to terminate. The callback running now, if any,
// finishes first. Stop is idempotent and may be called before Run.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

// Done is closed once the loop has terminated and its hooks have run.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run drives the loop on the calling goroutine until Stop is called or ctx
// is done, then runs the termination hooks.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	terminated := l.terminated
	l.mu.Unlock()
	if terminated {
		return srvErrors.NewLoopTerminatedError()
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopAlreadyRunning
	}
	defer l.terminate()

	log := zap.S().Named("loop")
	log.Debug("loop started")

	t := time.NewTimer(time.Hour)
	t.Stop()
	defer t.Stop()

	for {
		select {
		case <-l.stop:
			log.Debug("loop stopped")
			return nil
		case <-ctx.Done():
			log.Debugw("loop context done", "error", ctx.Err())
			return ctx.Err()
		default:
		}

		fn, wait, ok := l.next(time.Now())
		if ok {
			l.invoke(fn)
			l.ran.Add(1)
			continue
		}

		var fire <-chan time.Time
		if wait >= 0 {
			t.Reset(wait)
			fire = t.C
		}

		select {
		case <-l.stop:
			log.Debug("loop stopped")
			return nil
		case <-ctx.Done():
			log.Debugw("loop context done", "error", ctx.Err())
			return ctx.Err()
		case <-l.wake:
		case <-fire:
		}
		t.Stop()
	}
}

// next pops the first due callback. When none is due it returns how long
// to wait for the earliest one, or -1 when the heap is empty.
func (l *Loop) next(now time.Time) (func(), time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		e, ok := heap.Peek(&l.timers)
		if !ok {
			return nil, -1, false
		}
		if !e.timer.pending() {
			_, _ = heap.PopOrderable(&l.timers)
			l.queued--
			continue
		}
		if e.when.After(now) {
			return nil, e.when.Sub(now), false
		}
		_, _ = heap.PopOrderable(&l.timers)
		l.queued--
		if e.timer.Claim() {
			return e.fn, 0, true
		}
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("loop").Errorw("loop callback panicked", "panic", rec)
		}
	}()
	fn()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) terminate() {
	l.mu.Lock()
	l.terminated = true
	hooks := l.hooks
	l.hooks = nil
	for {
		e, ok := heap.PopOrderable(&l.timers)
		if !ok {
			break
		}
		e.timer.Cancel()
	}
	l.queued = 0
	l.mu.Unlock()

	for _, fn := range hooks {
		l.invoke(fn)
	}
	close(l.done)
}
