// Package loop implements a cooperative single-threaded loop with a
// deferred-callback facility.
//
// The loop plays the part a GUI main loop plays in a desktop program: one
// goroutine owns the visible state and runs callbacks one at a time, never
// preempted by another callback. Workers never touch loop-owned state; they
// hand data over through a queue that a callback on the loop polls.
//
// # Event Loop (Run method)
//
//	for {
//	    if stop requested           -> run OnTerminate hooks, return
//	    if a callback is due        -> run it to completion, continue
//	    wait for: wake-up (new Schedule), earliest deadline, stop, ctx
//	}
//
// Callbacks run in deadline order; callbacks with the same deadline run in
// the order they were scheduled. A panicking callback is recovered and
// logged; the loop keeps going.
//
// # Deferred Callbacks
//
//	h := l.Schedule(100*time.Millisecond, func() { label.Set("tick") })
//	h.Cancel() // idempotent, the callback will not fire
//
// The delay is a minimum, not an exact wait. A callback fires at most once;
// after it fired or was cancelled, Cancel is a no-op. Rescheduling is done
// by scheduling a new callback, never by calling the callback recursively.
//
// # Termination
//
// Stop (or cancelling the context given to Run) ends the loop. Pending
// callbacks are cancelled, then OnTerminate hooks run on the loop goroutine
// before Run returns. This is where the bridge Coordinator tells consumer
// workers to exit.
package loop
