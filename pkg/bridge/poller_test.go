package bridge_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/loop"
	"github.com/kubev2v/loopbridge/pkg/queue"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

var _ = Describe("Poller", func() {
	var (
		ctx     context.Context
		sched   *manualScheduler
		q       *queue.Queue[bridge.Message[string]]
		applied []string
		apply   func(string)
	)

	BeforeEach(func() {
		ctx = context.Background()
		sched = &manualScheduler{}
		q = queue.New[bridge.Message[string]]()
		applied = nil
		apply = func(s string) { applied = append(applied, s) }
	})

	Context("empty queue", func() {
		// Given a started poller on an empty queue
		// When it is polled five times
		// Then each poll reschedules once and applies nothing
		It("should reschedule on every empty poll", func() {
			p := bridge.NewPoller(sched, q, apply)
			Expect(p.Start()).To(BeTrue())
			Expect(p.State()).To(Equal(bridge.PollScheduled))

			for range 5 {
				start := time.Now()
				Expect(sched.RunNext()).To(BeTrue())
				Expect(time.Since(start)).To(BeNumerically("<", 10*time.Millisecond))
				Expect(p.State()).To(Equal(bridge.PollRanEmpty))
				Expect(sched.Live()).To(Equal(1))
			}

			stats := p.Stats()
			Expect(stats.Ticks).To(BeEquivalentTo(5))
			Expect(stats.Empty).To(BeEquivalentTo(5))
			Expect(stats.Reschedules).To(BeEquivalentTo(5))
			Expect(stats.Applied).To(BeZero())
			Expect(applied).To(BeEmpty())
		})
	})

	Context("messages", func() {
		// Given ten messages followed by the sentinel
		// When the poller runs until it stops rescheduling
		// Then it applies the ten messages in order and terminates once
		It("should apply messages in order and stop at the sentinel", func() {
			for i := range 10 {
				Expect(q.Put(ctx, bridge.Data(fmt.Sprintf("hello %d", i)))).To(Succeed())
			}
			Expect(q.Put(ctx, bridge.Done[string]())).To(Succeed())

			finished := 0
			var finishErr error
			p := bridge.NewPoller(sched, q, apply, bridge.WithFinish(func(err error) {
				finished++
				finishErr = err
			}))
			p.Start()

			for sched.RunNext() {
			}

			expected := make([]string, 0, 10)
			for i := range 10 {
				expected = append(expected, fmt.Sprintf("hello %d", i))
			}
			Expect(applied).To(Equal(expected))
			Expect(finished).To(Equal(1))
			Expect(finishErr).NotTo(HaveOccurred())
			Expect(p.State()).To(Equal(bridge.PollTerminated))
			Expect(p.Done()).To(BeClosed())

			stats := p.Stats()
			Expect(stats.Ticks).To(BeEquivalentTo(11))
			Expect(stats.Applied).To(BeEquivalentTo(10))
			Expect(stats.Reschedules).To(BeEquivalentTo(10))
			Expect(sched.Live()).To(BeZero())
		})

		It("should pass the failure to finish", func() {
			boom := errors.New("boom")
			Expect(q.Put(ctx, bridge.Data("partial"))).To(Succeed())
			Expect(q.Put(ctx, bridge.Failure[string](boom))).To(Succeed())

			var finishErr error
			p := bridge.NewPoller(sched, q, apply, bridge.WithFinish(func(err error) { finishErr = err }))
			p.Start()
			for sched.RunNext() {
			}

			Expect(applied).To(Equal([]string{"partial"}))
			Expect(finishErr).To(MatchError(boom))
			Expect(p.State()).To(Equal(bridge.PollTerminated))
		})

		// Given a message queued behind the sentinel
		// When the poller reaches the sentinel
		// Then the later message is never observed
		It("should not observe anything after the sentinel", func() {
			Expect(q.Put(ctx, bridge.Data("a"))).To(Succeed())
			Expect(q.Put(ctx, bridge.Done[string]())).To(Succeed())
			Expect(q.Put(ctx, bridge.Data("b"))).To(Succeed())

			p := bridge.NewPoller(sched, q, apply)
			p.Start()
			for sched.RunNext() {
			}

			Expect(applied).To(Equal([]string{"a"}))
			Expect(q.Len()).To(Equal(1))
			Expect(p.Stats().Ticks).To(BeEquivalentTo(2))
		})

		It("should keep polling when apply panics", func() {
			Expect(q.Put(ctx, bridge.Data("bad"))).To(Succeed())
			Expect(q.Put(ctx, bridge.Data("good"))).To(Succeed())
			Expect(q.Put(ctx, bridge.Done[string]())).To(Succeed())

			p := bridge.NewPoller(sched, q, func(s string) {
				if s == "bad" {
					panic("bad message")
				}
				applied = append(applied, s)
			})
			p.Start()
			for sched.RunNext() {
			}

			Expect(applied).To(Equal([]string{"good"}))
			Expect(p.State()).To(Equal(bridge.PollTerminated))
		})
	})

	Context("Stop", func() {
		It("should cancel the pending poll", func() {
			p := bridge.NewPoller(sched, q, apply)
			p.Start()
			Expect(sched.RunNext()).To(BeTrue())

			p.Stop()
			p.Stop()
			Expect(p.State()).To(Equal(bridge.PollStopped))
			Expect(p.Done()).To(BeClosed())
			Expect(sched.RunNext()).To(BeFalse())
			Expect(p.Start()).To(BeFalse())
		})
	})

	Context("delays", func() {
		It("should use the configured constant interval", func() {
			p := bridge.NewPoller(sched, q, apply, bridge.WithInterval(150*time.Millisecond))
			p.Start()
			sched.RunNext()
			sched.RunNext()

			Expect(sched.Delays()).To(Equal([]time.Duration{
				150 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond,
			}))
		})

		// Given an exponential backoff
		// When polls keep finding nothing and then a message arrives
		// Then the delay grows while empty and resets after the message
		It("should back off while empty and reset on a message", func() {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 10 * time.Millisecond
			b.RandomizationFactor = 0
			b.Multiplier = 2
			b.MaxInterval = 40 * time.Millisecond
			b.Reset()

			p := bridge.NewPoller(sched, q, apply, bridge.WithBackOff(b))
			p.Start()
			sched.RunNext()
			sched.RunNext()
			sched.RunNext()
			Expect(q.Put(ctx, bridge.Data("x"))).To(Succeed())
			sched.RunNext()

			Expect(sched.Delays()).To(Equal([]time.Duration{
				10 * time.Millisecond,
				20 * time.Millisecond,
				40 * time.Millisecond,
				40 * time.Millisecond,
				10 * time.Millisecond,
			}))
		})
	})

	Context("on a running loop", func() {
		var l *loop.Loop

		BeforeEach(func() {
			l = loop.New()
			go func() { _ = l.Run(ctx) }()
		})

		AfterEach(func() {
			l.Stop()
			Eventually(l.Done(), time.Second).Should(BeClosed())
		})

		// Given a producer emitting "hello 0".."hello 9" then the sentinel
		// When a poller relays them to a label on the loop
		// Then the label saw exactly ten updates in order and polling stopped
		It("should relay a producer's results to loop state", func() {
			g := worker.NewGroup()
			defer g.Close()

			var label []string
			finished := make(chan error, 1)

			stream := queue.New[bridge.Message[string]]()
			bridge.StartProducer(g, stream, "hello", func(ctx context.Context, emit func(string) error) error {
				for i := range 10 {
					if err := emit(fmt.Sprintf("hello %d", i)); err != nil {
						return err
					}
					time.Sleep(10 * time.Millisecond)
				}
				return nil
			})

			p := bridge.NewPoller(l, stream, func(s string) { label = append(label, s) },
				bridge.WithInterval(5*time.Millisecond),
				bridge.WithFinish(func(err error) { finished <- err }),
			)
			l.Post(func() { p.Start() })

			Eventually(finished, 2*time.Second).Should(Receive(BeNil()))

			got := make(chan []string, 1)
			l.Post(func() { got <- append([]string(nil), label...) })
			var updates []string
			Eventually(got, time.Second).Should(Receive(&updates))
			Expect(updates).To(HaveLen(10))
			for i, u := range updates {
				Expect(u).To(Equal(fmt.Sprintf("hello %d", i)))
			}

			reschedules := p.Stats().Reschedules
			Consistently(func() uint64 { return p.Stats().Reschedules }, 100*time.Millisecond).Should(Equal(reschedules))
			Expect(p.State()).To(Equal(bridge.PollTerminated))
		})
	})
})
