package models

import (
	"time"

	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

type WorkerStatusType string

const (
	WorkerStatusRunning  WorkerStatusType = "running"
	WorkerStatusFinished WorkerStatusType = "finished"
	WorkerStatusFailed   WorkerStatusType = "failed"
)

// WorkerStatus is a snapshot of one worker handle.
type WorkerStatus struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Status  WorkerStatusType `json:"status"`
	Started time.Time        `json:"started"`
	Error   string           `json:"error,omitempty"`
}

func NewWorkerStatus(h *worker.Handle) WorkerStatus {
	s := WorkerStatus{
		ID:      h.ID(),
		Name:    h.Name(),
		Status:  WorkerStatusRunning,
		Started: h.Started(),
	}
	if h.Alive() {
		return s
	}

	s.Status = WorkerStatusFinished
	if err := h.Err(); err != nil {
		s.Status = WorkerStatusFailed
		s.Error = err.Error()
	}
	return s
}

// PollerStatus is a snapshot of one loop-side poller.
type PollerStatus struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Ticks       uint64 `json:"ticks"`
	Empty       uint64 `json:"empty"`
	Applied     uint64 `json:"applied"`
	Reschedules uint64 `json:"reschedules"`
}

func NewPollerStatus(p bridge.PollerInfo) PollerStatus {
	return PollerStatus{
		Name:        p.Name,
		State:       p.State.String(),
		Ticks:       p.Stats.Ticks,
		Empty:       p.Stats.Empty,
		Applied:     p.Stats.Applied,
		Reschedules: p.Stats.Reschedules,
	}
}

// ConsumerView is what a consumer exposes for reporting. bridge.Consumer
// implements it for every payload type.
type ConsumerView interface {
	Name() string
	Alive() bool
	Pending() int
	Processed() uint64
	Failed() uint64
}

// ConsumerStatus is a snapshot of one loop-to-worker consumer.
type ConsumerStatus struct {
	Name      string `json:"name"`
	Alive     bool   `json:"alive"`
	Pending   int    `json:"pending"`
	Processed uint64 `json:"processed"`
	Failed    uint64 `json:"failed"`
}

func NewConsumerStatus(c ConsumerView) ConsumerStatus {
	return ConsumerStatus{
		Name:      c.Name(),
		Alive:     c.Alive(),
		Pending:   c.Pending(),
		Processed: c.Processed(),
		Failed:    c.Failed(),
	}
}

// BridgeStatus is the full picture served by the status endpoint.
type BridgeStatus struct {
	Label     string           `json:"label"`
	Running   int              `json:"running"`
	Workers   []WorkerStatus   `json:"workers"`
	Pollers   []PollerStatus   `json:"pollers"`
	Consumers []ConsumerStatus `json:"consumers"`
}

// NewBridgeStatus collects a snapshot of every worker, poller and consumer
// known to b. It is safe to call from any goroutine.
func NewBridgeStatus(b *bridge.Bridge, label string) BridgeStatus {
	handles := b.Group().Handles()
	s := BridgeStatus{
		Label:     label,
		Running:   b.Group().Running(),
		Workers:   make([]WorkerStatus, 0, len(handles)),
		Pollers:   []PollerStatus{},
		Consumers: []ConsumerStatus{},
	}
	for _, h := range handles {
		s.Workers = append(s.Workers, NewWorkerStatus(h))
	}
	for _, p := range b.Pollers() {
		s.Pollers = append(s.Pollers, NewPollerStatus(p))
	}
	for _, cl := range b.Coordinator().Registered() {
		if cv, ok := cl.(ConsumerView); ok {
			s.Consumers = append(s.Consumers, NewConsumerStatus(cv))
		}
	}
	return s
}
