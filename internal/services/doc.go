// Package services implements the layer between the HTTP handlers and the
// cooperative loop.
//
// Handlers run on gin's goroutines while the demo state (label, clicker,
// producer flag) belongs to the loop. A Session never touches that state
// directly from a handler: each operation is posted onto the loop and the
// caller waits for the answer.
//
//	Handlers (HTTP goroutines)
//	    │  Click / StartProducer / StartBlocking
//	    ▼
//	Session ──Post──► Loop ──► Clicker.Click ──► consumer queue ──► worker
//	    │                  └──► ThreadToLoop ──► producer worker ──► poller
//	    │
//	    └── Status: lock-free snapshot of workers, pollers and consumers
//
// # Failure Modes
//
//   - The loop has terminated: the operation is refused with a
//     LoopTerminatedError.
//   - The request context ends before the loop ran the operation: the
//     callback is cancelled and ctx.Err() is returned.
//   - A producer is already running: ErrProducerRunning.
package services
