package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/pkg/loop"
	"github.com/kubev2v/loopbridge/pkg/queue"
)

// DefaultPollInterval is the delay between two polls when none is configured.
const DefaultPollInterval = 100 * time.Millisecond

// PollState is the state of a Poller.
type PollState int32

const (
	// PollIdle - created, not started
	PollIdle PollState = iota
	// PollScheduled - first poll scheduled
	PollScheduled
	// PollRanEmpty - last poll found nothing, next poll scheduled
	PollRanEmpty
	// PollRanMessage - last poll applied a message, next poll scheduled
	PollRanMessage
	// PollTerminated - sentinel received, polling ended
	PollTerminated
	// PollStopped - cancelled before the sentinel arrived
	PollStopped
)

func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollScheduled:
		return "scheduled"
	case PollRanEmpty:
		return "ran-empty"
	case PollRanMessage:
		return "ran-message"
	case PollTerminated:
		return "terminated"
	case PollStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PollStats counts what a Poller did.
type PollStats struct {
	Ticks       uint64
	Empty       uint64
	Applied     uint64
	Reschedules uint64
}

type PollerOption func(*pollerOptions)

type pollerOptions struct {
	name    string
	backOff backoff.BackOff
	finish  func(error)
}

func WithName(name string) PollerOption {
	return func(o *pollerOptions) {
		o.name = name
	}
}

// WithInterval polls at a constant interval.
func WithInterval(d time.Duration) PollerOption {
	return func(o *pollerOptions) {
		o.backOff = backoff.NewConstantBackOff(d)
	}
}

// WithBackOff drives the delay with b: NextBackOff after every empty poll,
// Reset after every applied message.
func WithBackOff(b backoff.BackOff) PollerOption {
	return func(o *pollerOptions) {
		o.backOff = b
	}
}

// WithFinish sets the callback run once on the loop when the sentinel
// arrives. err is nil for Done and the carried error for Failure.
func WithFinish(fn func(err error)) PollerOption {
	return func(o *pollerOptions) {
		o.finish = fn
	}
}

// Poller relays messages from a queue to loop-owned state. Every tick runs
// on the loop, performs exactly one non-blocking receive and either
// reschedules itself or, on the sentinel, stops for good.
type Poller[T any] struct {
	name    string
	sched   loop.Scheduler
	q       *queue.Queue[Message[T]]
	apply   func(T)
	finish  func(error)
	backOff backoff.BackOff

	mu     sync.Mutex
	state  PollState
	handle loop.Handle
	done   chan struct{}

	ticks       atomic.Uint64
	empty       atomic.Uint64
	applied     atomic.Uint64
	reschedules atomic.Uint64
}

func NewPoller[T any](sched loop.Scheduler, q *queue.Queue[Message[T]], apply func(T), opts ...PollerOption) *Poller[T] {
	o := pollerOptions{name: "poller"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backOff == nil {
		o.backOff = backoff.NewConstantBackOff(DefaultPollInterval)
	}
	return &Poller[T]{
		name:    o.name,
		sched:   sched,
		q:       q,
		apply:   apply,
		finish:  o.finish,
		backOff: o.backOff,
		done:    make(chan struct{}),
	}
}

// Start schedules the first poll. It reports false if the poller was
// already started or stopped.
func (p *Poller[T]) Start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != PollIdle {
		return false
	}
	p.state = PollScheduled
	p.handle = p.sched.Schedule(p.nextDelay(), p.tick)
	return true
}

// Stop cancels the next poll. The sentinel, if it arrives later, is never
// observed. Stop is idempotent and safe from any goroutine.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == PollTerminated || p.state == PollStopped {
		return
	}
	p.state = PollStopped
	if p.handle != nil {
		p.handle.Cancel()
	}
	close(p.done)
}

func (p *Poller[T]) tick() {
	p.ticks.Add(1)

	m, err := p.q.TryGet()
	if err != nil {
		p.empty.Add(1)
		p.reschedule(PollRanEmpty, p.nextDelay())
		return
	}

	if m.IsSentinel() {
		p.terminate(m.Err)
		return
	}

	p.applyMessage(m.Payload)
	p.applied.Add(1)
	p.backOff.Reset()
	p.reschedule(PollRanMessage, p.nextDelay())
}

func (p *Poller[T]) applyMessage(v T) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("poller").Errorw("apply panicked", "name", p.name, "panic", rec)
		}
	}()
	p.apply(v)
}

func (p *Poller[T]) reschedule(outcome PollState, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == PollStopped || p.state == PollTerminated {
		return
	}
	p.state = outcome
	p.handle = p.sched.Schedule(delay, p.tick)
	p.reschedules.Add(1)
}

func (p *Poller[T]) terminate(err error) {
	p.mu.Lock()
	if p.state == PollStopped || p.state == PollTerminated {
		p.mu.Unlock()
		return
	}
	p.state = PollTerminated
	p.handle = nil
	close(p.done)
	p.mu.Unlock()

	zap.S().Named("poller").Debugw("end of stream", "name", p.name, "error", err)
	if p.finish != nil {
		p.finish(err)
	}
}

func (p *Poller[T]) nextDelay() time.Duration {
	d := p.backOff.NextBackOff()
	if d < 0 {
		return DefaultPollInterval
	}
	return d
}

func (p *Poller[T]) Name() string { return p.name }

func (p *Poller[T]) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Done is closed when the poller reaches Terminated or Stopped.
func (p *Poller[T]) Done() <-chan struct{} { return p.done }

func (p *Poller[T]) Stats() PollStats {
	return PollStats{
		Ticks:       p.ticks.Load(),
		Empty:       p.empty.Load(),
		Applied:     p.applied.Load(),
		Reschedules: p.reschedules.Load(),
	}
}
