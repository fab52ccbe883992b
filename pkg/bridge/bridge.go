package bridge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/pkg/loop"
	"github.com/kubev2v/loopbridge/pkg/queue"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

type Option func(*Bridge)

func WithPollInterval(d time.Duration) Option {
	return func(b *Bridge) {
		b.pollInterval = d
	}
}

// WithPollBackOff gives every poller its own BackOff built by fn.
func WithPollBackOff(fn func() backoff.BackOff) Option {
	return func(b *Bridge) {
		b.newBackOff = fn
	}
}

func WithWatchInterval(d time.Duration) Option {
	return func(b *Bridge) {
		b.watchInterval = d
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.shutdownTimeout = d
	}
}

// WithQueueOptions applies opts to every queue the bridge creates.
func WithQueueOptions(opts ...queue.Option) Option {
	return func(b *Bridge) {
		b.queueOpts = opts
	}
}

// PollerInfo is a snapshot of one poller.
type PollerInfo struct {
	Name  string
	State PollState
	Stats PollStats
}

type pollerView interface {
	Name() string
	State() PollState
	Stats() PollStats
}

// Bridge wires a cooperative loop to the workers it talks to. It creates
// the queues, starts worker/poller pairings and owns the Coordinator that
// drains consumers when the loop terminates.
type Bridge struct {
	sched           loop.Scheduler
	group           *worker.Group
	coord           *Coordinator
	pollInterval    time.Duration
	watchInterval   time.Duration
	shutdownTimeout time.Duration
	newBackOff      func() backoff.BackOff
	queueOpts       []queue.Option

	mu      sync.Mutex
	pollers []pollerView
	once    sync.Once
	err     error
}

// New returns a bridge scheduling on sched and spawning on group. When
// sched can report its termination, Shutdown is hooked to it.
func New(sched loop.Scheduler, group *worker.Group, opts ...Option) *Bridge {
	b := &Bridge{
		sched:           sched,
		group:           group,
		coord:           NewCoordinator(),
		pollInterval:    DefaultPollInterval,
		watchInterval:   DefaultWatchInterval,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}

	if t, ok := sched.(loop.Terminator); ok {
		t.OnTerminate(func() {
			ctx, cancel := context.WithTimeout(context.Background(), b.shutdownTimeout)
			defer cancel()
			if err := b.Shutdown(ctx); err != nil {
				zap.S().Named("bridge").Errorw("shutdown incomplete", "error", err)
			}
		})
	}
	return b
}

// Produce starts fn on a worker and a poller applying its results on the
// loop. finish runs on the loop once the stream ends; its argument is nil
// on success.
func Produce[T any](b *Bridge, name string, fn ProduceFunc[T], apply func(T), finish func(error)) (*Poller[T], *worker.Handle) {
	q := queue.New[Message[T]](b.queueOpts...)
	h := StartProducer(b.group, q, name, fn)

	p := NewPoller(b.sched, q, apply, b.pollerOptions(name, finish)...)
	b.coord.Track(p)
	b.mu.Lock()
	b.pollers = append(b.pollers, p)
	b.mu.Unlock()

	p.Start()
	return p, h
}

// Poll starts a poller on an existing queue, for streams whose producer is
// not started by the bridge.
func Poll[T any](b *Bridge, name string, q *queue.Queue[Message[T]], apply func(T), finish func(error)) *Poller[T] {
	p := NewPoller(b.sched, q, apply, b.pollerOptions(name, finish)...)
	b.coord.Track(p)
	b.mu.Lock()
	b.pollers = append(b.pollers, p)
	b.mu.Unlock()

	p.Start()
	return p
}

// Consume starts a long-lived consumer registered with the coordinator.
func Consume[T any](b *Bridge, name string, fn ConsumeFunc[T], opts ...ConsumerOption[T]) *Consumer[T] {
	q := queue.New[Message[T]](b.queueOpts...)
	c := StartConsumer(b.group, q, name, fn, opts...)
	b.coord.Register(c)
	return c
}

// Run starts w on a worker. When onFinished is not nil a Watcher calls it on
// the loop, once, after the worker has exited, with the worker's error.
func (b *Bridge) Run(name string, w worker.Work, onFinished func(error)) (*worker.Handle, *Watcher) {
	h := b.group.Spawn(name, w)
	if onFinished == nil {
		return h, nil
	}

	wt := Watch(b.sched, h, b.watchInterval, func() {
		onFinished(h.Err())
	})
	b.coord.Track(wt)
	return h, wt
}

// Shutdown drains the consumers through the coordinator, then waits for
// every other worker of the group. It runs once.
func (b *Bridge) Shutdown(ctx context.Context) error {
	b.once.Do(func() {
		b.err = errors.Join(
			b.coord.Shutdown(ctx),
			b.group.Wait(ctx),
		)
	})
	return b.err
}

func (b *Bridge) Pollers() []PollerInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	infos := make([]PollerInfo, 0, len(b.pollers))
	for _, p := range b.pollers {
		infos = append(infos, PollerInfo{
			Name:  p.Name(),
			State: p.State(),
			Stats: p.Stats(),
		})
	}
	return infos
}

func (b *Bridge) Coordinator() *Coordinator { return b.coord }

func (b *Bridge) Group() *worker.Group { return b.group }

func (b *Bridge) Scheduler() loop.Scheduler { return b.sched }

func (b *Bridge) pollerOptions(name string, finish func(error)) []PollerOption {
	opts := []PollerOption{WithName(name), WithFinish(finish), WithInterval(b.pollInterval)}
	if b.newBackOff != nil {
		opts = append(opts, WithBackOff(b.newBackOff()))
	}
	return opts
}
