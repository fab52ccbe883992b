package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kubev2v/loopbridge/pkg/loop"
)

type callbackMsg struct {
	timer *loop.Timer
	fn    func()
}

// Scheduler makes a bubbletea program the cooperative loop: a callback is
// delivered to the program as a message once its delay expires and runs
// inside Update, like any other event.
type Scheduler struct {
	mu         sync.Mutex
	send       func(tea.Msg)
	pending    map[*loop.Timer]*time.Timer
	terminated bool
	hooks      []func()
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[*loop.Timer]*time.Timer)}
}

// Attach sets the function delivering messages, usually Program.Send. It
// must be called before the first callback comes due.
func (s *Scheduler) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *Scheduler) Schedule(delay time.Duration, fn func()) loop.Handle {
	t := loop.NewTimer()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		t.Cancel()
		return t
	}
	s.pending[t] = time.AfterFunc(max(delay, 0), func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(callbackMsg{timer: t, fn: fn})
		}
	})
	return t
}

// Dispatch runs msg when it is a callback and reports whether it was one.
// Call it first thing in Update.
func (s *Scheduler) Dispatch(msg tea.Msg) bool {
	cb, ok := msg.(callbackMsg)
	if !ok {
		return false
	}

	s.mu.Lock()
	delete(s.pending, cb.timer)
	s.mu.Unlock()

	if cb.timer.Claim() {
		cb.fn()
	}
	return true
}

// OnTerminate registers fn to run when Terminate is called, or right away
// if it already was.
func (s *Scheduler) OnTerminate(fn func()) {
	s.mu.Lock()
	if !s.terminated {
		s.hooks = append(s.hooks, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// Terminate cancels every pending callback and runs the termination hooks.
// Call it once the program has returned.
func (s *Scheduler) Terminate() {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	s.terminated = true
	for t, at := range s.pending {
		at.Stop()
		t.Cancel()
	}
	s.pending = nil
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Pending returns the number of callbacks not yet dispatched.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
