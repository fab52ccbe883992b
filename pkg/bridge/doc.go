// Package bridge exchanges messages between one cooperative loop and any
// number of workers running on their own goroutines.
//
// The loop never blocks on a worker. Workers never touch loop-owned state.
// Everything crosses over through a queue.Queue of Message values, and the
// loop side only ever performs non-blocking receives scheduled through its
// own deferred-callback facility.
//
// # Architecture Overview
//
//	  worker -> loop                           loop -> worker
//	┌──────────────┐                        ┌──────────────┐
//	│   Producer   │ Put(Data)..Put(Done)   │  loop event  │ TrySend(v)
//	│   (worker)   │ ───────┐               │  (callback)  │ ───────┐
//	└──────────────┘        ▼               └──────────────┘        ▼
//	                 ┌─────────────┐                         ┌─────────────┐
//	                 │    Queue    │                         │    Queue    │
//	                 └──────┬──────┘                         └──────┬──────┘
//	   TryGet every tick    │                    blocking Get       │
//	┌──────────────┐        │               ┌──────────────┐        │
//	│    Poller    │ ◄──────┘               │   Consumer   │ ◄──────┘
//	│   (loop)     │ apply(v) on the loop   │   (worker)   │ fn(v), exits on Done
//	└──────────────┘                        └──────────────┘
//
// A queue carries data in one direction only.
//
// # Message
//
//   - Data(v): an ordinary payload
//   - Done(): sentinel, the stream ended normally
//   - Failure(err): sentinel, the stream ended with err
//
// Once a worker has sent or received a sentinel it sends nothing further.
//
// # Poller State Machine
//
//	                 ┌──────────────────────────────┐
//	                 ▼                              │ Schedule(delay, tick)
//	┌──────┐   ┌───────────┐  tick: Empty   ┌──────────┴───┐
//	│ Idle │──►│ Scheduled │ ─────────────► │  RanEmpty    │
//	└──────┘   └───────────┘                └──────────────┘
//	              │  tick: Data, apply(v)   ┌──────────────┐
//	              └───────────────────────► │  RanMessage  │ (rescheduled too)
//	              │                         └──────────────┘
//	              │  tick: sentinel         ┌──────────────┐
//	              └───────────────────────► │  Terminated  │ (absorbing)
//	                                        └──────────────┘
//
// Every tick performs exactly one TryGet. Rescheduling submits a new
// callback to the scheduler, it is never a recursive call. Stop cancels the
// pending callback and moves the poller to Stopped.
//
// The delay comes from a backoff.BackOff: constant by default, optionally
// exponential while the queue stays empty and reset on every message.
//
// # Liveness Watcher
//
// Watch checks Alive() on the loop every interval and runs its terminal
// action exactly once after the worker has exited, at most one interval
// late.
//
// # Shutdown
//
// Consumers block on their queue, so they must be told to stop. The
// Coordinator, hooked to the loop's termination event, stops pending polls,
// puts a sentinel on every live consumer queue and joins every consumer:
//
//	l := loop.New()
//	b := bridge.New(l, worker.NewGroup())
//	c := bridge.Consume(b, "printer", func(ctx context.Context, s string) error {
//	    fmt.Println(s)
//	    return nil
//	})
//	l.Post(func() { _ = c.TrySend("hello") })
//	_ = l.Run(ctx) // on Stop: sentinel sent, consumer joined
//
// A consumer that never receives its sentinel is leaked for the life of the
// process; Coordinator.Shutdown reports it with an AbandonedWorkerError.
//
// # Failures
//
// A failing or panicking producer still ends its stream, with a Failure
// message, so the poller is never left waiting. A failing unit of work in a
// consumer is relayed as data on an optional failure queue. Errors never
// cross goroutines any other way.
package bridge
