package bridge

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
	"github.com/kubev2v/loopbridge/pkg/loop"
)

// DefaultShutdownTimeout bounds how long the coordinator waits for workers
// when it is run from the loop's termination event.
const DefaultShutdownTimeout = 5 * time.Second

// Closer is a long-lived worker that exits once it receives a sentinel.
type Closer interface {
	Name() string
	Alive() bool
	Close(ctx context.Context) error
	Join(ctx context.Context) error
}

// Stopper is a loop-side component with pending callbacks to cancel.
type Stopper interface {
	Stop()
}

// Coordinator makes sure no consumer worker outlives the loop. On shutdown
// it cancels the pending polls it tracks, puts a sentinel on every live
// consumer, then waits for each of them to exit.
type Coordinator struct {
	mu       sync.Mutex
	closers  []Closer
	stoppers []Stopper
	shutdown bool

	once sync.Once
	err  error
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Register adds a consumer. Registering after shutdown closes it right away.
func (c *Coordinator) Register(cl Closer) {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		if err := cl.Close(context.Background()); err != nil {
			zap.S().Named("coordinator").Errorw("failed to close late consumer", "name", cl.Name(), "error", err)
		}
		return
	}
	c.closers = append(c.closers, cl)
	c.mu.Unlock()
}

// Track adds a poller or watcher. Tracking after shutdown stops it right away.
func (c *Coordinator) Track(s Stopper) {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		s.Stop()
		return
	}
	c.stoppers = append(c.stoppers, s)
	c.mu.Unlock()
}

// Attach runs Shutdown from t's termination event, bounded by timeout.
func (c *Coordinator) Attach(t loop.Terminator, timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	t.OnTerminate(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := c.Shutdown(ctx); err != nil {
			zap.S().Named("coordinator").Errorw("shutdown incomplete", "error", err)
		}
	})
}

// Shutdown stops tracked pollers, sends the sentinel to every live consumer
// and joins them all within ctx. A consumer busy with a unit of work is not
// interrupted; it exits after that unit and whatever was queued before the
// sentinel. Workers still running when ctx is done are reported with an
// AbandonedWorkerError. Shutdown runs once; later calls return the first result.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		log := zap.S().Named("coordinator")

		c.mu.Lock()
		c.shutdown = true
		closers := append([]Closer(nil), c.closers...)
		stoppers := append([]Stopper(nil), c.stoppers...)
		c.mu.Unlock()

		for _, s := range stoppers {
			s.Stop()
		}

		for _, cl := range closers {
			if !cl.Alive() {
				continue
			}
			log.Debugw("sending sentinel", "name", cl.Name())
			if err := cl.Close(ctx); err != nil {
				log.Errorw("failed to send sentinel", "name", cl.Name(), "error", err)
			}
		}

		var (
			mu        sync.Mutex
			abandoned []string
			g         errgroup.Group
		)
		for _, cl := range closers {
			g.Go(func() error {
				if err := cl.Join(ctx); err != nil {
					mu.Lock()
					abandoned = append(abandoned, cl.Name())
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()

		if len(abandoned) > 0 {
			sort.Strings(abandoned)
			c.err = srvErrors.NewAbandonedWorkerError(abandoned...)
			return
		}
		log.Infow("all consumers exited", "count", len(closers))
	})
	return c.err
}

// Consumers returns the number of registered consumers.
func (c *Coordinator) Consumers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.closers)
}

// Registered returns the registered consumers in registration order.
func (c *Coordinator) Registered() []Closer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Closer(nil), c.closers...)
}
