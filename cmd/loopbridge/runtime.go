package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/internal/config"
	"github.com/kubev2v/loopbridge/internal/demo"
	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/loop"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

// runtime is what every loop-driven command needs: the loop, the workers'
// group, the bridge between them and a console.
type runtime struct {
	cfg     *config.Configuration
	loop    *loop.Loop
	group   *worker.Group
	bridge  *bridge.Bridge
	console *demo.Console
}

func newRuntime(cfg *config.Configuration) *runtime {
	l := loop.New()
	g := worker.NewGroup()
	return &runtime{
		cfg:     cfg,
		loop:    l,
		group:   g,
		bridge:  bridge.New(l, g, cfg.BridgeOptions()...),
		console: demo.NewConsole(os.Stdout),
	}
}

// run drives the loop on the calling goroutine until something stops it or
// the process is interrupted. Consumers are drained by the bridge when the
// loop terminates; the group is closed last.
func (r *runtime) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := r.loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.Loop.ShutdownTimeout)
	defer cancel()
	if serr := r.bridge.Shutdown(shutdownCtx); serr != nil {
		zap.S().Named("runtime").Errorw("shutdown incomplete", "error", serr)
	}
	r.group.Close()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
