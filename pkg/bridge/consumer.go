package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
	"github.com/kubev2v/loopbridge/pkg/queue"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

// ConsumeFunc performs one unit of work. It may be slow.
type ConsumeFunc[T any] func(ctx context.Context, v T) error

type ConsumerOption[T any] func(*Consumer[T])

// WithFailures relays every failed unit of work to q as Data, and ends that
// stream with Done when the consumer exits, so a Poller can present errors.
func WithFailures[T any](q *queue.Queue[Message[error]]) ConsumerOption[T] {
	return func(c *Consumer[T]) {
		c.failures = q
	}
}

// Consumer is a long-lived worker serving units of work from its inbound
// queue until it receives the sentinel.
type Consumer[T any] struct {
	name      string
	q         *queue.Queue[Message[T]]
	failures  *queue.Queue[Message[error]]
	handle    *worker.Handle
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
	processed atomic.Uint64
	failed    atomic.Uint64
}

// StartConsumer spawns a worker of g that blocks on q, runs fn for every
// Data message and exits on the first sentinel. A unit that fails or panics
// is logged and relayed, the worker keeps serving.
func StartConsumer[T any](g *worker.Group, q *queue.Queue[Message[T]], name string, fn ConsumeFunc[T], opts ...ConsumerOption[T]) *Consumer[T] {
	c := &Consumer[T]{
		name: name,
		q:    q,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handle = g.Spawn(name, c.run(fn))
	return c
}

func (c *Consumer[T]) run(fn ConsumeFunc[T]) worker.Work {
	return func(ctx context.Context) error {
		log := zap.S().Named("consumer")

		if c.failures != nil {
			defer func() {
				if err := putTerminal(context.WithoutCancel(ctx), c.failures, Done[error]()); err != nil {
					log.Errorw("failed to end failure stream", "name", c.name, "error", err)
				}
			}()
		}

		for {
			// blocking on purpose: the worker is idle until there is work
			m, err := c.q.Get(ctx)
			if err != nil {
				log.Warnw("consumer stopped without sentinel", "name", c.name, "error", err)
				return err
			}
			if m.IsSentinel() {
				log.Debugw("consumer received sentinel, exiting", "name", c.name)
				return nil
			}

			if err := c.process(ctx, fn, m.Payload); err != nil {
				c.failed.Add(1)
				log.Errorw("unit of work failed", "name", c.name, "error", err)
				if c.failures != nil {
					if perr := c.failures.Put(ctx, Data(err)); perr != nil {
						log.Errorw("failed to relay failure", "name", c.name, "error", perr)
					}
				}
			}
			c.processed.Add(1)
		}
	}
}

func (c *Consumer[T]) process(ctx context.Context, fn ConsumeFunc[T], v T) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = srvErrors.NewWorkerPanicError(c.name, rec)
		}
	}()
	return fn(ctx, v)
}

// Send enqueues a unit of work. It fails with StreamClosedError after Close.
func (c *Consumer[T]) Send(ctx context.Context, v T) error {
	if c.closed.Load() {
		return srvErrors.NewStreamClosedError(c.name)
	}
	return c.q.Put(ctx, Data(v))
}

// TrySend enqueues a unit of work without ever blocking. The loop uses it:
// on a full bounded queue it gets a QueueFullError instead of waiting for
// the worker.
func (c *Consumer[T]) TrySend(v T) error {
	if c.closed.Load() {
		return srvErrors.NewStreamClosedError(c.name)
	}
	return c.q.TryPut(Data(v))
}

// Close enqueues the sentinel. The worker finishes the unit in progress and
// everything queued before the sentinel, then exits. Close is idempotent.
func (c *Consumer[T]) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = putTerminal(ctx, c.q, Done[T]())
	})
	return c.closeErr
}

func (c *Consumer[T]) Name() string { return c.name }

func (c *Consumer[T]) Handle() *worker.Handle { return c.handle }

func (c *Consumer[T]) Alive() bool { return c.handle.Alive() }

func (c *Consumer[T]) Join(ctx context.Context) error { return c.handle.Join(ctx) }

// Pending returns the number of messages waiting in the inbound queue.
func (c *Consumer[T]) Pending() int { return c.q.Len() }

// Processed returns the number of units of work handled so far, failed ones included.
func (c *Consumer[T]) Processed() uint64 { return c.processed.Load() }

func (c *Consumer[T]) Failed() uint64 { return c.failed.Load() }
