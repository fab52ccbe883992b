package demo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

// ThreadToLoop starts a worker that sends "hello 0" .. "hello n-1", pausing
// between two messages, and a poller that shows each one on the label.
// finish runs on the loop after the last message.
func ThreadToLoop(b *bridge.Bridge, console *Console, label *Label, n int, pause time.Duration, finish func(error)) (*bridge.Poller[string], *worker.Handle) {
	const name = "thread2loop"

	produce := func(ctx context.Context, emit func(string) error) error {
		for i := range n {
			msg := fmt.Sprintf("hello %d", i)
			console.Worker(name, "puts %q to the queue", msg)
			if err := emit(msg); err != nil {
				return err
			}
			if err := sleep(ctx, pause); err != nil {
				return err
			}
		}
		console.Worker(name, "puts the sentinel to the queue")
		return nil
	}

	apply := func(msg string) {
		console.Loop("poller got %q", msg)
		label.Set(msg)
	}

	return bridge.Produce(b, name, produce, apply, func(err error) {
		if err != nil {
			zap.S().Named("demo").Errorw("producer failed", "name", name, "error", err)
		}
		console.Loop("poller got the sentinel, polling ends")
		if finish != nil {
			finish(err)
		}
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
