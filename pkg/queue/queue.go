package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/gammazero/deque"

	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
)

// ErrEmpty is returned by TryGet when nothing is pending. It is the normal
// "not ready yet" answer of a non-blocking receive, not a failure.
var ErrEmpty = errors.New("queue: empty")

// FullPolicy decides what a producer experiences when a bounded queue is full.
type FullPolicy int

const (
	// Block makes Put wait until capacity frees or its context is done.
	Block FullPolicy = iota
	// Fail makes Put return a QueueFullError immediately.
	Fail
)

func (p FullPolicy) String() string {
	switch p {
	case Block:
		return "block"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

type Option func(*options)

type options struct {
	capacity int
	policy   FullPolicy
}

// WithCapacity bounds the queue. A capacity <= 0 means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

func WithFullPolicy(p FullPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// Queue is a FIFO mailbox safe for any number of producers and consumers.
// Values put by a single producer are received in the order they were put.
type Queue[T any] struct {
	mu       sync.Mutex
	items    deque.Deque[T]
	capacity int
	policy   FullPolicy

	// broadcast channels, closed and dropped on the next push/pop
	notEmpty chan struct{}
	notFull  chan struct{}
}

// New returns an unbounded queue unless WithCapacity is given.
func New[T any](opts ...Option) *Queue[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 0 {
		o.capacity = 0
	}
	return &Queue[T]{
		capacity: o.capacity,
		policy:   o.policy,
	}
}

// Put enqueues v. On an unbounded queue it never blocks.
func (q *Queue[T]) Put(ctx context.Context, v T) error {
	q.mu.Lock()
	for q.full() {
		if q.policy == Fail {
			q.mu.Unlock()
			return srvErrors.NewQueueFullError(q.capacity)
		}
		wait := q.waitNotFull()
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}

		q.mu.Lock()
	}
	q.push(v)
	q.mu.Unlock()
	return nil
}

// TryPut enqueues v without ever blocking, whatever the full policy.
func (q *Queue[T]) TryPut(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.full() {
		return srvErrors.NewQueueFullError(q.capacity)
	}
	q.push(v)
	return nil
}

// Get removes and returns the oldest value, suspending the caller until one
// is available or ctx is done.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	q.mu.Lock()
	for q.items.Len() == 0 {
		wait := q.waitNotEmpty()
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}

		q.mu.Lock()
	}
	v := q.pop()
	q.mu.Unlock()
	return v, nil
}

// TryGet removes and returns the oldest value or ErrEmpty. It never blocks.
func (q *Queue[T]) TryGet() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.pop(), nil
}

// Len is a snapshot of the number of pending values.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Cap returns the capacity, 0 for unbounded queues.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

func (q *Queue[T]) full() bool {
	return q.capacity > 0 && q.items.Len() >= q.capacity
}

func (q *Queue[T]) push(v T) {
	q.items.PushBack(v)
	if q.notEmpty != nil {
		close(q.notEmpty)
		q.notEmpty = nil
	}
}

func (q *Queue[T]) pop() T {
	v := q.items.PopFront()
	if q.notFull != nil {
		close(q.notFull)
		q.notFull = nil
	}
	return v
}

func (q *Queue[T]) waitNotEmpty() chan struct{} {
	if q.notEmpty == nil {
		q.notEmpty = make(chan struct{})
	}
	return q.notEmpty
}

func (q *Queue[T]) waitNotFull() chan struct{} {
	if q.notFull == nil {
		q.notFull = make(chan struct{})
	}
	return q.notFull
}
