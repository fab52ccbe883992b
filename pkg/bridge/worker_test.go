package bridge_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
	"github.com/kubev2v/loopbridge/pkg/queue"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

func drain[T any](q *queue.Queue[bridge.Message[T]]) []bridge.Message[T] {
	var out []bridge.Message[T]
	for {
		m, err := q.TryGet()
		if err != nil {
			return out
		}
		out = append(out, m)
	}
}

var _ = Describe("Producer", func() {
	var (
		ctx context.Context
		g   *worker.Group
		q   *queue.Queue[bridge.Message[int]]
	)

	BeforeEach(func() {
		ctx = context.Background()
		g = worker.NewGroup()
		q = queue.New[bridge.Message[int]]()
	})

	AfterEach(func() {
		g.Close()
	})

	It("should emit results followed by Done", func() {
		h := bridge.StartProducer(g, q, "counter", func(ctx context.Context, emit func(int) error) error {
			for i := range 3 {
				if err := emit(i); err != nil {
					return err
				}
			}
			return nil
		})
		Expect(h.Join(ctx)).To(Succeed())

		msgs := drain(q)
		Expect(msgs).To(HaveLen(4))
		for i := range 3 {
			Expect(msgs[i].Kind).To(Equal(bridge.KindData))
			Expect(msgs[i].Payload).To(Equal(i))
		}
		Expect(msgs[3].Kind).To(Equal(bridge.KindDone))
		Expect(msgs[3].IsSentinel()).To(BeTrue())
	})

	It("should end the stream with a Failure when the work fails", func() {
		boom := errors.New("boom")
		h := bridge.StartProducer(g, q, "failing", func(ctx context.Context, emit func(int) error) error {
			_ = emit(1)
			return boom
		})
		Expect(h.Join(ctx)).To(Succeed())
		Expect(h.Err()).To(MatchError(boom))

		msgs := drain(q)
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[1].Kind).To(Equal(bridge.KindFailure))
		Expect(msgs[1].Err).To(MatchError(boom))
	})

	// Given a producer that panics halfway
	// When it runs on a worker
	// Then the panic is contained and the stream still ends with a Failure
	It("should end the stream with a Failure when the work panics", func() {
		h := bridge.StartProducer(g, q, "panicky", func(ctx context.Context, emit func(int) error) error {
			_ = emit(1)
			panic("oops")
		})
		Expect(h.Join(ctx)).To(Succeed())
		Expect(srvErrors.IsWorkerPanicError(h.Err())).To(BeTrue())

		msgs := drain(q)
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[1].Kind).To(Equal(bridge.KindFailure))
		Expect(srvErrors.IsWorkerPanicError(msgs[1].Err)).To(BeTrue())
	})

	It("should refuse emits after the stream ended", func() {
		var leaked func(int) error
		h := bridge.StartProducer(g, q, "leaky", func(ctx context.Context, emit func(int) error) error {
			leaked = emit
			return nil
		})
		Expect(h.Join(ctx)).To(Succeed())

		err := leaked(42)
		Expect(srvErrors.IsStreamClosedError(err)).To(BeTrue())
		Expect(drain(q)).To(HaveLen(1))
	})

	// Given a bounded queue that fails when full
	// When the producer fills it before finishing
	// Then the sentinel is delivered as soon as the reader makes room
	It("should deliver the sentinel once a full queue drains", func() {
		bounded := queue.New[bridge.Message[int]](queue.WithCapacity(2), queue.WithFullPolicy(queue.Fail))
		h := bridge.StartProducer(g, bounded, "filler", func(ctx context.Context, emit func(int) error) error {
			if err := emit(1); err != nil {
				return err
			}
			return emit(2)
		})

		Consistently(h.Done(), 100*time.Millisecond).ShouldNot(BeClosed())
		_, err := bounded.TryGet()
		Expect(err).NotTo(HaveOccurred())

		Eventually(h.Done(), 2*time.Second).Should(BeClosed())
		msgs := drain(bounded)
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[1].Kind).To(Equal(bridge.KindDone))
	})
})

var _ = Describe("Consumer", func() {
	var (
		ctx context.Context
		g   *worker.Group
	)

	BeforeEach(func() {
		ctx = context.Background()
		g = worker.NewGroup()
	})

	AfterEach(func() {
		g.Close()
	})

	// Given a consumer fed "hello" and then the sentinel
	// When it drains its queue
	// Then it handles "hello" exactly once and exits
	It("should handle each message once and exit on the sentinel", func() {
		var (
			mu   sync.Mutex
			seen []string
		)
		c := bridge.StartConsumer(g, queue.New[bridge.Message[string]](), "printer",
			func(ctx context.Context, s string) error {
				mu.Lock()
				seen = append(seen, s)
				mu.Unlock()
				return nil
			})

		Expect(c.Send(ctx, "hello")).To(Succeed())
		Expect(c.Close(ctx)).To(Succeed())

		joinCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		Expect(c.Join(joinCtx)).To(Succeed())
		Expect(c.Alive()).To(BeFalse())
		Expect(c.Processed()).To(BeEquivalentTo(1))

		mu.Lock()
		defer mu.Unlock()
		Expect(seen).To(Equal([]string{"hello"}))
	})

	It("should wait idle for work", func() {
		c := bridge.StartConsumer(g, queue.New[bridge.Message[string]](), "idle",
			func(ctx context.Context, s string) error { return nil })

		Consistently(c.Alive, 100*time.Millisecond).Should(BeTrue())
		Expect(c.Processed()).To(BeZero())

		Expect(c.Close(ctx)).To(Succeed())
		Eventually(c.Handle().Done(), time.Second).Should(BeClosed())
	})

	It("should refuse work after Close and close only once", func() {
		q := queue.New[bridge.Message[string]]()
		c := bridge.StartConsumer(g, q, "closing", func(ctx context.Context, s string) error { return nil })

		Expect(c.Close(ctx)).To(Succeed())
		Expect(c.Close(ctx)).To(Succeed())
		Expect(srvErrors.IsStreamClosedError(c.Send(ctx, "late"))).To(BeTrue())

		Eventually(c.Handle().Done(), time.Second).Should(BeClosed())
		Expect(q.Len()).To(BeZero())
	})

	// Given a capacity-1 queue and a consumer busy with its first unit
	// When TrySend is called twice more
	// Then the second call is refused at once instead of waiting
	It("should refuse TrySend on a full queue without blocking", func() {
		release := make(chan struct{})
		q := queue.New[bridge.Message[string]](queue.WithCapacity(1))
		c := bridge.StartConsumer(g, q, "busy", func(ctx context.Context, s string) error {
			<-release
			return nil
		})

		Expect(c.TrySend("first")).To(Succeed())
		Eventually(c.Pending, time.Second).Should(BeZero())
		Expect(c.TrySend("second")).To(Succeed())

		start := time.Now()
		err := c.TrySend("third")
		Expect(time.Since(start)).To(BeNumerically("<", 50*time.Millisecond))
		Expect(srvErrors.IsQueueFullError(err)).To(BeTrue())

		close(release)
		Expect(c.Close(ctx)).To(Succeed())
		Eventually(c.Handle().Done(), time.Second).Should(BeClosed())
		Expect(c.Processed()).To(BeEquivalentTo(2))
		Expect(srvErrors.IsStreamClosedError(c.TrySend("late"))).To(BeTrue())
	})

	// Given a consumer whose units sometimes fail or panic
	// When it processes a batch
	// Then failures are relayed as data and the consumer keeps serving
	It("should contain failing units and relay them", func() {
		failures := queue.New[bridge.Message[error]]()
		c := bridge.StartConsumer(g, queue.New[bridge.Message[string]](), "picky",
			func(ctx context.Context, s string) error {
				switch s {
				case "bad":
					return errors.New("bad input")
				case "boom":
					panic("boom")
				}
				return nil
			},
			bridge.WithFailures[string](failures),
		)

		for _, s := range []string{"ok", "bad", "boom", "ok"} {
			Expect(c.Send(ctx, s)).To(Succeed())
		}
		Expect(c.Close(ctx)).To(Succeed())
		Eventually(c.Handle().Done(), 2*time.Second).Should(BeClosed())

		Expect(c.Processed()).To(BeEquivalentTo(4))
		Expect(c.Failed()).To(BeEquivalentTo(2))
		Expect(c.Handle().Err()).NotTo(HaveOccurred())

		msgs := drain(failures)
		Expect(msgs).To(HaveLen(3))
		Expect(msgs[0].Payload).To(MatchError("bad input"))
		Expect(srvErrors.IsWorkerPanicError(msgs[1].Payload)).To(BeTrue())
		Expect(msgs[2].Kind).To(Equal(bridge.KindDone))
	})

	// Given a consumer that is never sent the sentinel
	// When we try to join it
	// Then it is still blocked in its receive: the worker is leaked
	It("should leak when nobody sends the sentinel", func() {
		c := bridge.StartConsumer(g, queue.New[bridge.Message[string]](), "forgotten",
			func(ctx context.Context, s string) error { return nil })
		Expect(c.Send(ctx, "hello")).To(Succeed())

		joinCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()
		Expect(c.Join(joinCtx)).To(MatchError(context.DeadlineExceeded))
		Expect(c.Alive()).To(BeTrue())
		Expect(c.Processed()).To(BeEquivalentTo(1))

		Expect(c.Close(ctx)).To(Succeed())
		Eventually(c.Handle().Done(), time.Second).Should(BeClosed())
	})
})
