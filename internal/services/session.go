package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/internal/config"
	"github.com/kubev2v/loopbridge/internal/demo"
	"github.com/kubev2v/loopbridge/internal/models"
	"github.com/kubev2v/loopbridge/pkg/bridge"
	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
	"github.com/kubev2v/loopbridge/pkg/loop"
)

// ErrProducerRunning is returned when a producer is requested while the
// previous one has not finished.
var ErrProducerRunning = errors.New("a producer is already running")

// Session owns the loop-side demo state. HTTP handlers run on their own
// goroutines, so every operation touching that state is posted onto the
// loop and the handler waits for its answer.
type Session struct {
	loop    *loop.Loop
	bridge  *bridge.Bridge
	console *demo.Console
	label   *demo.Label
	clicker *demo.Clicker
	cfg     config.Demo

	// loop-owned
	producing bool
}

func NewSession(l *loop.Loop, b *bridge.Bridge, console *demo.Console, cfg config.Demo) *Session {
	return &Session{
		loop:    l,
		bridge:  b,
		console: console,
		label:   demo.NewLabel(console),
		clicker: demo.LoopToThread(b, console, cfg.WorkDuration),
		cfg:     cfg,
	}
}

func (s *Session) Status() models.BridgeStatus {
	return models.NewBridgeStatus(s.bridge, s.label.Text())
}

// Click enqueues one message for the consumer, from the loop, and returns
// the total number of clicks.
func (s *Session) Click(ctx context.Context) (uint64, error) {
	return onLoop(ctx, s.loop, func() (uint64, error) {
		if err := s.clicker.Click(); err != nil {
			return 0, err
		}
		return s.clicker.Clicks(), nil
	})
}

// StartProducer starts a worker sending messages to the label.
func (s *Session) StartProducer(ctx context.Context) (models.WorkerStatus, error) {
	return onLoop(ctx, s.loop, func() (models.WorkerStatus, error) {
		if s.producing {
			return models.WorkerStatus{}, ErrProducerRunning
		}
		s.producing = true
		_, h := demo.ThreadToLoop(s.bridge, s.console, s.label, s.cfg.Messages, s.cfg.MessageInterval, func(err error) {
			s.producing = false
		})
		return models.NewWorkerStatus(h), nil
	})
}

// StartBlocking moves one blocking call off the loop.
func (s *Session) StartBlocking(ctx context.Context) (models.WorkerStatus, error) {
	return onLoop(ctx, s.loop, func() (models.WorkerStatus, error) {
		h := demo.StartBlocking(s.bridge, s.console, s.cfg.WorkDuration)
		return models.NewWorkerStatus(h), nil
	})
}

type result[T any] struct {
	value T
	err   error
}

// onLoop runs fn on the loop and waits for its result, ctx or the loop's end.
func onLoop[T any](ctx context.Context, l *loop.Loop, fn func() (T, error)) (T, error) {
	var zero T
	ch := make(chan result[T], 1)

	h := l.Post(func() {
		v, err := fn()
		ch <- result[T]{value: v, err: err}
	})
	if h.Cancelled() {
		return zero, srvErrors.NewLoopTerminatedError()
	}

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		if h.Cancel() {
			zap.S().Named("session").Debugw("request abandoned before reaching the loop", "error", ctx.Err())
		}
		return zero, ctx.Err()
	case <-l.Done():
		// the callback may have run just before termination
		select {
		case r := <-ch:
			return r.value, r.err
		default:
			return zero, srvErrors.NewLoopTerminatedError()
		}
	}
}
