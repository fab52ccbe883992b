package bridge

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
	"github.com/kubev2v/loopbridge/pkg/queue"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

// ProduceFunc emits a finite sequence of results. It runs on its own worker
// and may block or sleep between results.
type ProduceFunc[T any] func(ctx context.Context, emit func(T) error) error

// StartProducer spawns fn on a worker of g. Every result passed to emit is
// put on q as Data. When fn returns, a sentinel is always put on q: Done on
// success, Failure with fn's error or with a WorkerPanicError otherwise.
// emit returns a StreamClosedError once the sentinel has been sent.
func StartProducer[T any](g *worker.Group, q *queue.Queue[Message[T]], name string, fn ProduceFunc[T]) *worker.Handle {
	return g.Spawn(name, func(ctx context.Context) (err error) {
		log := zap.S().Named("producer")

		var closed atomic.Bool
		emit := func(v T) error {
			if closed.Load() {
				return srvErrors.NewStreamClosedError(name)
			}
			return q.Put(ctx, Data(v))
		}

		defer func() {
			terminal := Done[T]()
			if rec := recover(); rec != nil {
				err = srvErrors.NewWorkerPanicError(name, rec)
				log.Errorw("producer panicked", "name", name, "panic", rec)
			}
			if err != nil {
				terminal = Failure[T](err)
			}

			closed.Store(true)
			if perr := putTerminal(context.WithoutCancel(ctx), q, terminal); perr != nil {
				log.Errorw("failed to send end of stream", "name", name, "error", perr)
				return
			}
			log.Debugw("producer finished", "name", name, "kind", terminal.Kind, "error", err)
		}()

		return fn(ctx, emit)
	})
}

// putTerminal puts a sentinel on q. A full bounded queue that fails fast is
// retried with backoff until the receiver makes room.
func putTerminal[T any](ctx context.Context, q *queue.Queue[Message[T]], m Message[T]) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = time.Second

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := q.Put(ctx, m)
		if err != nil && !srvErrors.IsQueueFullError(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b))
	return err
}
