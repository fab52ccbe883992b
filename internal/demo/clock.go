package demo

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kubev2v/loopbridge/pkg/loop"
)

// Clock refreshes a label with the current time and resubmits itself every
// interval. Each tick returns right away; the wait happens in the loop.
type Clock struct {
	sched    loop.Scheduler
	label    *Label
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	next    loop.Handle
	stopped bool
	ticks   atomic.Uint64
}

// StartClock schedules the first tick immediately.
func StartClock(sched loop.Scheduler, label *Label, interval time.Duration) *Clock {
	c := &Clock{
		sched:    sched,
		label:    label,
		interval: interval,
		now:      time.Now,
	}
	c.mu.Lock()
	c.next = sched.Schedule(0, c.tick)
	c.mu.Unlock()
	return c
}

func (c *Clock) tick() {
	c.ticks.Add(1)
	c.label.Set(c.now().Format(time.ANSIC))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.next = c.sched.Schedule(c.interval, c.tick)
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.next != nil {
		c.next.Cancel()
	}
}

func (c *Clock) Ticks() uint64 { return c.ticks.Load() }
