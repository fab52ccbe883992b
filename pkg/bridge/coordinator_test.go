package bridge_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
	"github.com/kubev2v/loopbridge/pkg/loop"
	"github.com/kubev2v/loopbridge/pkg/queue"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

var _ = Describe("Coordinator", func() {
	var (
		ctx   context.Context
		g     *worker.Group
		coord *bridge.Coordinator
	)

	BeforeEach(func() {
		ctx = context.Background()
		g = worker.NewGroup()
		coord = bridge.NewCoordinator()
	})

	AfterEach(func() {
		g.Close()
	})

	newConsumer := func(name string, fn bridge.ConsumeFunc[int]) *bridge.Consumer[int] {
		c := bridge.StartConsumer(g, queue.New[bridge.Message[int]](), name, fn)
		coord.Register(c)
		return c
	}

	// Given consumers with messages still queued
	// When Shutdown is called
	// Then every consumer finishes its queue and exits in time
	It("should drain every consumer", func() {
		var handled atomic.Int64
		consumers := make([]*bridge.Consumer[int], 0, 3)
		for _, name := range []string{"a", "b", "c"} {
			consumers = append(consumers, newConsumer(name, func(ctx context.Context, v int) error {
				time.Sleep(time.Millisecond)
				handled.Add(1)
				return nil
			}))
		}
		for _, c := range consumers {
			for i := range 20 {
				Expect(c.Send(ctx, i)).To(Succeed())
			}
		}
		Expect(coord.Consumers()).To(Equal(3))

		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		Expect(coord.Shutdown(sctx)).To(Succeed())

		for _, c := range consumers {
			Expect(c.Alive()).To(BeFalse())
		}
		Expect(handled.Load()).To(BeEquivalentTo(60))
	})

	// Given a consumer in the middle of a slow unit of work
	// When Shutdown is called
	// Then it waits for that unit instead of interrupting it
	It("should not interrupt a unit of work in progress", func() {
		started := make(chan struct{})
		release := make(chan struct{})
		var finished atomic.Bool
		c := newConsumer("busy", func(ctx context.Context, v int) error {
			close(started)
			<-release
			finished.Store(true)
			return nil
		})
		Expect(c.Send(ctx, 1)).To(Succeed())
		Eventually(started, time.Second).Should(BeClosed())

		done := make(chan error, 1)
		go func() { done <- coord.Shutdown(ctx) }()

		Consistently(done, 200*time.Millisecond).ShouldNot(Receive())
		close(release)
		Eventually(done, time.Second).Should(Receive(BeNil()))
		Expect(finished.Load()).To(BeTrue())
	})

	It("should report consumers that did not exit in time", func() {
		release := make(chan struct{})
		defer close(release)
		c := newConsumer("stuck", func(ctx context.Context, v int) error {
			<-release
			return nil
		})
		newConsumer("quick", func(ctx context.Context, v int) error { return nil })
		Expect(c.Send(ctx, 1)).To(Succeed())

		sctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		err := coord.Shutdown(sctx)
		Expect(srvErrors.IsAbandonedWorkerError(err)).To(BeTrue())

		var abandoned *srvErrors.AbandonedWorkerError
		Expect(errors.As(err, &abandoned)).To(BeTrue())
		Expect(abandoned.Workers).To(Equal([]string{"stuck"}))

		Expect(coord.Shutdown(ctx)).To(MatchError(err))
	})

	It("should stop tracked pollers", func() {
		sched := &manualScheduler{}
		p := bridge.NewPoller(sched, queue.New[bridge.Message[int]](), func(int) {})
		p.Start()
		coord.Track(p)

		Expect(coord.Shutdown(ctx)).To(Succeed())
		Expect(p.State()).To(Equal(bridge.PollStopped))
		Expect(sched.RunNext()).To(BeFalse())
	})

	It("should close consumers registered after shutdown", func() {
		Expect(coord.Shutdown(ctx)).To(Succeed())

		c := newConsumer("late", func(ctx context.Context, v int) error { return nil })
		Eventually(c.Handle().Done(), time.Second).Should(BeClosed())
	})

	// Given a coordinator attached to a running loop
	// When the loop terminates
	// Then the consumer receives its sentinel and exits before Done is closed
	It("should shut down from the loop's termination event", func() {
		l := loop.New()
		coord.Attach(l, time.Second)
		c := newConsumer("printer", func(ctx context.Context, v int) error { return nil })

		go func() { _ = l.Run(ctx) }()
		l.Post(func() { _ = c.TrySend(1) })
		Eventually(c.Processed, time.Second).Should(BeEquivalentTo(1))

		l.Stop()
		Eventually(l.Done(), 2*time.Second).Should(BeClosed())
		Expect(c.Alive()).To(BeFalse())
	})
})
