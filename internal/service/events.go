package service

import (
	"sync"
	"sync/atomic"
)

// EventType defines the type of event
type EventType string

const (
	EventOntologyLoaded   EventType = "ontology_loaded"
	EventEntityCreated    EventType = "entity_created"
	EventEntityDeleted    EventType = "entity_deleted"
	EventChangesApplied   EventType = "changes_applied"
	EventSnapshotSaved    EventType = "snapshot_saved"
	EventSnapshotDeleted  EventType = "snapshot_deleted"
	EventSnapshotRestored EventType = "snapshot_restored"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventName names the event on the SSE stream
func (e Event) EventName() string { return string(e.Type) }

// EventBus fans events out to subscriber channels. Publishing never blocks:
// a subscriber whose buffer is full misses the event.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	next    int
	dropped atomic.Uint64
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel with the given buffer and a function that
// removes and closes it
func (eb *EventBus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	eb.mu.Lock()
	id := eb.next
	eb.next++
	eb.subs[id] = ch
	eb.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			eb.mu.Lock()
			delete(eb.subs, id)
			eb.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subs {
		select {
		case ch <- event:
		default:
			eb.dropped.Add(1)
		}
	}
}

// Dropped reports how many deliveries were skipped for full subscribers
func (eb *EventBus) Dropped() uint64 {
	return eb.dropped.Load()
}
