package ecs

import "github.com/milk9111/locomotion/ecs/component"

// EventType identifies the payload carried by an Event.
type EventType string

const (
	EventBehaviorTransition EventType = "behavior_transition"
	EventJumped             EventType = "jumped"
	EventLanded             EventType = "landed"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// BehaviorTransitionEvent is emitted when a behavior state machine changes
// state. Locks is the gate configuration in force after the change.
type BehaviorTransitionEvent struct {
	Entity Entity
	From   string
	To     string
	Locks  component.LockConfiguration
}

// JumpEvent is emitted on the tick a jump impulse is applied.
type JumpEvent struct {
	Entity Entity
	Double bool
}

// LandedEvent is emitted on the first grounded tick after being airborne.
type LandedEvent struct {
	Entity Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
