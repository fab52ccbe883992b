package worker

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
)

type Work func(ctx context.Context) error

// Handle identifies a spawned worker.
type Handle struct {
	id      string
	name    string
	started time.Time
	done    chan struct{}
	alive   atomic.Bool
	err     error
}

func (h *Handle) ID() string { return h.id }

func (h *Handle) Name() string { return h.name }

func (h *Handle) Started() time.Time { return h.started }

// Alive reports whether the worker is still executing. It never blocks and,
// once it has returned false, it never returns true again.
func (h *Handle) Alive() bool { return h.alive.Load() }

// Done is closed when the worker has fully exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Join blocks until the worker has exited or ctx is done.
func (h *Handle) Join(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the worker's outcome, nil while it is alive. The error is
// stored before Alive turns false, so it is safe to read once Alive is.
func (h *Handle) Err() error {
	if h.alive.Load() {
		return nil
	}
	return h.err
}

// Group spawns workers on dedicated goroutines and keeps track of them so
// they can be waited for at shutdown.
type Group struct {
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	handles    map[string]*Handle
	closed     bool
	once       sync.Once
}

func NewGroup() *Group {
	ctx, cancel := context.WithCancel(context.Background())
	return &Group{
		mainCtx:    ctx,
		mainCancel: cancel,
		handles:    make(map[string]*Handle),
	}
}

// Spawn starts w on a new goroutine. A panic in w is recovered and becomes
// the handle's error. Spawning on a closed group returns a handle that is
// already done with context.Canceled.
func (g *Group) Spawn(name string, w Work) *Handle {
	h := &Handle{
		id:      uuid.NewString(),
		name:    name,
		started: time.Now(),
		done:    make(chan struct{}),
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		// we're closing here so finish the handle with an error
		h.err = context.Canceled
		close(h.done)
		return h
	}
	g.handles[h.id] = h
	h.alive.Store(true)
	g.wg.Add(1)
	g.mu.Unlock()

	go g.run(h, w)

	return h
}

func (g *Group) run(h *Handle, w Work) {
	log := zap.S().Named("worker")
	defer func() {
		if rec := recover(); rec != nil {
			h.err = srvErrors.NewWorkerPanicError(h.name, rec)
			log.Errorw("worker panicked", "id", h.id, "name", h.name, "panic", rec)
		}
		h.alive.Store(false)
		close(h.done)
		g.wg.Done()
		log.Debugw("worker exited", "id", h.id, "name", h.name, "error", h.err)
	}()

	log.Debugw("worker started", "id", h.id, "name", h.name)
	h.err = w(g.mainCtx)
}

// Handles returns a snapshot of every worker spawned by the group, oldest first.
func (g *Group) Handles() []*Handle {
	g.mu.Lock()
	defer g.mu.Unlock()

	hs := make([]*Handle, 0, len(g.handles))
	for _, h := range g.handles {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i].started.Before(hs[j].started) })
	return hs
}

// Running returns the number of workers still executing.
func (g *Group) Running() int {
	n := 0
	for _, h := range g.Handles() {
		if h.Alive() {
			n++
		}
	}
	return n
}

// Wait blocks until every spawned worker has exited. When ctx is done first
// it returns an AbandonedWorkerError naming the workers still running.
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		var names []string
		for _, h := range g.Handles() {
			if h.Alive() {
				names = append(names, h.name)
			}
		}
		if len(names) == 0 {
			return nil
		}
		return srvErrors.NewAbandonedWorkerError(names...)
	}
}

// Close refuses new workers and cancels the context handed to running ones.
// It is the hard stop used after orderly shutdown; workers that ignore their
// context keep running. Close is idempotent.
func (g *Group) Close() {
	g.once.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()
		g.mainCancel()
	})
}
