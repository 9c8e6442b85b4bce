package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tag names a lifecycle event emitted by the simulation driver.
type Tag string

const (
	// SimulationStart is emitted once before any iteration runs.
	SimulationStart Tag = "simulation_start"
	// IterationComplete is emitted after each iteration finishes, with
	// "number" (collection order) and "result" in the payload.
	IterationComplete Tag = "iteration_complete"
	// SimulationEnd is emitted after the last iteration, with "seconds".
	SimulationEnd Tag = "simulation_end"
	// AggregationStart is emitted before results are bucketed.
	AggregationStart Tag = "aggregation_start"
	// AggregationEnd is emitted after the outcome map is built, with "seconds".
	AggregationEnd Tag = "aggregation_end"
	// SimulationError is emitted when the preflight check rejects the
	// project configuration, with "message" in the payload.
	SimulationError Tag = "simulation_error"
)

// Event is the unit passed from the simulation to registered observers.
// Payload values are snapshots; observers cannot reach simulation state
// through them.
type Event struct {
	ID   uuid.UUID
	TS   time.Time
	Tag  Tag
	Data map[string]any
}

// New builds an Event stamped with a fresh ID and the current time.
func New(tag Tag, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{
		ID:   uuid.New(),
		TS:   time.Now(),
		Tag:  tag,
		Data: data,
	}
}

// Observer receives lifecycle events. Implementations must treat the
// event as read-only and should return quickly; notification is
// serialized with the emitting goroutines.
type Observer interface {
	Update(e Event)
}

// Notifier fans events out to registered observers. Safe for concurrent
// Notify calls; delivery order across goroutines is unspecified.
type Notifier struct {
	mu        sync.Mutex
	observers []Observer
}

// Register adds an observer. Registering during a run is allowed but the
// observer only sees events emitted after registration.
func (n *Notifier) Register(o Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, o)
}

// Unregister removes a previously registered observer. Unknown observers
// are ignored.
func (n *Notifier) Unregister(o Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, existing := range n.observers {
		if existing == o {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

// Notify delivers the event to every registered observer in registration
// order.
func (n *Notifier) Notify(e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, o := range n.observers {
		o.Update(e)
	}
}
