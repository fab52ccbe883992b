package demo

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/loop"
)

// Clicker is the loop-to-worker direction: every click enqueues "hello" for
// a long-lived consumer that spends work on each one. The bridge sends the
// consumer its sentinel when the loop terminates.
type Clicker struct {
	consumer *bridge.Consumer[string]
	clicks   atomic.Uint64
}

func LoopToThread(b *bridge.Bridge, console *Console, work time.Duration) *Clicker {
	const name = "loop2thread"

	c := &Clicker{}
	c.consumer = bridge.Consume(b, name, func(ctx context.Context, msg string) error {
		console.Worker(name, "doing something with %q ...", msg)
		// a unit is never interrupted, shutdown waits for it
		time.Sleep(work)
		console.Worker(name, "ready for another message")
		return nil
	})
	return c
}

// Click enqueues one message. It runs on the loop and never blocks on the
// worker: a full bounded queue refuses the click with a QueueFullError.
func (c *Clicker) Click() error {
	if err := c.consumer.TrySend("hello"); err != nil {
		return err
	}
	c.clicks.Add(1)
	return nil
}

func (c *Clicker) Clicks() uint64 { return c.clicks.Load() }

func (c *Clicker) Consumer() *bridge.Consumer[string] { return c.consumer }

// SimulateClicks clicks n times from loop callbacks spaced by interval, then
// runs done on the loop.
func SimulateClicks(sched loop.Scheduler, c *Clicker, n int, interval time.Duration, done func()) {
	var click func(i int)
	click = func(i int) {
		if i >= n {
			if done != nil {
				done()
			}
			return
		}
		_ = c.Click()
		sched.Schedule(interval, func() { click(i + 1) })
	}
	sched.Schedule(interval, func() { click(0) })
}
