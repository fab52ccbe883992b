// Package worker spawns background workers on dedicated goroutines.
//
// Each call to Spawn starts exactly one goroutine and returns a Handle. There
// is no pool: a consumer worker may sit in a blocking receive for the whole
// life of the program, so a worker must never wait for a free slot.
//
// # Worker Lifecycle
//
//	┌───────────┐    Spawn()     ┌───────────┐   return/panic   ┌───────────┐
//	│  (none)   │ ─────────────► │  Alive    │ ───────────────► │  Exited   │
//	└───────────┘                └───────────┘                  └───────────┘
//	                                                             Done() closed
//	                                                             Alive() false
//
// # Handle
//
//   - Alive(): non-blocking "still executing" query; false is final
//   - Join(ctx): blocks until the worker has exited
//   - Done(): channel closed on exit, for select statements
//   - Err(): nil, the error returned by the work, or a WorkerPanicError
//
// # Panic Recovery
//
// Workers recover from panics in work functions:
//
//	defer func() {
//	    if rec := recover(); rec != nil {
//	        h.err = errors.NewWorkerPanicError(h.name, rec)
//	    }
//	}()
//
// A panic never crashes the process and never reaches another goroutine.
//
// # Shutdown
//
// Orderly shutdown is the caller's job (see pkg/bridge Coordinator): tell
// each worker to stop, then Wait. Close is the hard stop: it refuses new
// workers and cancels the context passed to work functions.
//
//	g := worker.NewGroup()
//	h := g.Spawn("slow", func(ctx context.Context) error {
//	    time.Sleep(time.Second)
//	    return nil
//	})
//	_ = h.Join(context.Background())
package worker
