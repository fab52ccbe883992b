package errors

import (
	"errors"
	"fmt"
	"strings"
)

// QueueFullError is returned by a bounded queue configured to fail
// instead of blocking when no capacity is left.
type QueueFullError struct {
	Capacity int
}

func NewQueueFullError(capacity int) *QueueFullError {
	return &QueueFullError{Capacity: capacity}
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("queue is full (capacity %d)", e.Capacity)
}

func IsQueueFullError(err error) bool {
	var e *QueueFullError
	return errors.As(err, &e)
}

// WorkerPanicError wraps a value recovered from a panicking worker.
type WorkerPanicError struct {
	Worker string
	Value  any
}

func NewWorkerPanicError(worker string, value any) *WorkerPanicError {
	return &WorkerPanicError{Worker: worker, Value: value}
}

func (e *WorkerPanicError) Error() string {
	return fmt.Sprintf("worker %q panicked: %v", e.Worker, e.Value)
}

func IsWorkerPanicError(err error) bool {
	var e *WorkerPanicError
	return errors.As(err, &e)
}

// AbandonedWorkerError lists workers that did not exit before shutdown gave up waiting.
type AbandonedWorkerError struct {
	Workers []string
}

func NewAbandonedWorkerError(workers ...string) *AbandonedWorkerError {
	return &AbandonedWorkerError{Workers: workers}
}

func (e *AbandonedWorkerError) Error() string {
	return fmt.Sprintf("workers abandoned at shutdown: %s", strings.Join(e.Workers, ", "))
}

func IsAbandonedWorkerError(err error) bool {
	var e *AbandonedWorkerError
	return errors.As(err, &e)
}

// StreamClosedError is returned when a producer emits after its stream was terminated.
type StreamClosedError struct {
	Stream string
}

func NewStreamClosedError(stream string) *StreamClosedError {
	return &StreamClosedError{Stream: stream}
}

func (e *StreamClosedError) Error() string {
	return fmt.Sprintf("stream %q is closed", e.Stream)
}

func IsStreamClosedError(err error) bool {
	var e *StreamClosedError
	return errors.As(err, &e)
}

type LoopTerminatedError struct{}

func NewLoopTerminatedError() *LoopTerminatedError {
	return &LoopTerminatedError{}
}

func (e *LoopTerminatedError) Error() string {
	return "loop has been terminated"
}

func IsLoopTerminatedError(err error) bool {
	var e *LoopTerminatedError
	return errors.As(err, &e)
}
