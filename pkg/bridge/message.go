package bridge

// Kind tells how a Message must be interpreted.
type Kind int

const (
	// KindData is an ordinary payload: a worker result or a unit of work.
	KindData Kind = iota
	// KindDone is the sentinel: no more messages follow, the receiver stops.
	KindDone
	// KindFailure is a sentinel that also carries the error that ended the stream.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindDone:
		return "done"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Message is the only thing exchanged between the loop and workers.
type Message[T any] struct {
	Kind    Kind
	Payload T
	Err     error
}

func Data[T any](v T) Message[T] {
	return Message[T]{Kind: KindData, Payload: v}
}

func Done[T any]() Message[T] {
	return Message[T]{Kind: KindDone}
}

func Failure[T any](err error) Message[T] {
	return Message[T]{Kind: KindFailure, Err: err}
}

// IsSentinel reports whether m ends its stream.
func (m Message[T]) IsSentinel() bool {
	return m.Kind != KindData
}
