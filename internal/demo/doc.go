// Package demo holds the demonstration programs run by the loopbridge CLI,
// each one a pattern for talking between a cooperative loop and workers:
//
//	Clock         loop only: a callback that resubmits itself every interval
//	ThreadToLoop  worker -> loop: results relayed through a polled queue
//	LoopToThread  loop -> worker: clicks consumed by a long-lived worker
//	IsAlive       liveness: the loop notices when a slow worker is done
//	StartBlocking fire and forget: a blocking call moved off the loop
//
// Lines are written to a Console, colored by who wrote them.
package demo
