// Package server provides the HTTP status server of loopbridge.
//
// The server uses the Gin web framework. It lets an operator look at the
// bridge while a loop is running and poke the loop from outside: every
// request is turned into a callback on the loop by the services layer.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Logger (ginzap, request/response logging)              │  │
//	│  │  Recovery (panic recovery with zap logging)             │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"): gin runs in debug mode.
//
// Production Mode (ServerMode = "prod"): gin runs in release mode.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, handlers.New(session))
//	})
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        log.Errorw("server error", "error", err)
//	    }
//	}()
//
//	<-ctx.Done()
//	srv.Stop(shutdownCtx)
//
// Stop performs a graceful shutdown, waiting for in-flight requests. Stop
// the server before the loop, so no request is left waiting on a loop that
// has terminated.
package server
