package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/internal/handlers"
	"github.com/kubev2v/loopbridge/internal/server"
	"github.com/kubev2v/loopbridge/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the loop behind an HTTP status and control server",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRuntime(cfg)
		session := services.NewSession(r.loop, r.bridge, r.console, cfg.Demo)

		srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
			handlers.RegisterHandlers(router, handlers.New(session))
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			if err := srv.Start(ctx); err != nil {
				zap.S().Named("http").Errorw("server error", "error", err)
				r.loop.Stop()
			}
		}()

		// runs after the bridge hook; requests arriving meanwhile get a 503
		r.loop.OnTerminate(func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Loop.ShutdownTimeout)
			defer stopCancel()
			if err := srv.Stop(stopCtx); err != nil {
				zap.S().Named("http").Errorw("failed to stop server", "error", err)
			}
		})

		return r.run(ctx)
	},
}
