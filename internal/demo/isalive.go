package demo

import (
	"context"
	"time"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

// IsAlive runs a slow worker and watches it from the loop; ready runs on the
// loop once the worker has exited.
func IsAlive(b *bridge.Bridge, console *Console, steps int, step time.Duration, ready func(error)) (*worker.Handle, *bridge.Watcher) {
	const name = "slow"

	return b.Run(name, slowStuff(console, name, steps, step), func(err error) {
		if err != nil {
			console.Ready("the slow worker failed: %v", err)
		} else {
			console.Ready("I'm ready!")
		}
		if ready != nil {
			ready(err)
		}
	})
}

// StartBlocking starts a blocking call on a worker and forgets about it, so
// the loop stays responsive while it runs.
func StartBlocking(b *bridge.Bridge, console *Console, d time.Duration) *worker.Handle {
	const name = "blocking"

	h, _ := b.Run(name, func(ctx context.Context) error {
		console.Worker(name, "blocking function starts")
		err := sleep(ctx, d)
		console.Worker(name, "blocking function ends")
		return err
	}, nil)
	return h
}

func slowStuff(console *Console, name string, steps int, step time.Duration) worker.Work {
	return func(ctx context.Context) error {
		for i := 1; i <= steps; i++ {
			console.Worker(name, "%d ...", i)
			if err := sleep(ctx, step); err != nil {
				return err
			}
		}
		console.Worker(name, "done!")
		return nil
	}
}
