package execute

import (
	"time"

	"soncore/internal/domain/optimize"
)

type EventKind string

const (
	EventActionStarted     EventKind = "actionStarted"
	EventActionCompleted   EventKind = "actionCompleted"
	EventActionFailed      EventKind = "actionFailed"
	EventRollbackStarted   EventKind = "rollbackStarted"
	EventRollbackCompleted EventKind = "rollbackCompleted"
	EventRollbackFailed    EventKind = "rollbackFailed"
)

type Event struct {
	Kind       EventKind           `json:"kind"`
	ActionID   string              `json:"action_id"`
	ActionType optimize.ActionType `json:"action_type"`
	Target     string              `json:"target"`
	Err        string              `json:"err,omitempty"`
	At         time.Time           `json:"at"`
}

// Observer receives action lifecycle notifications. Delivery is
// synchronous with the triggering operation and a panicking observer
// never affects the action's outcome.
type Observer interface {
	Notify(Event)
}

func (e *Executor) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

func (e *Executor) notify(event Event) {
	e.mu.Lock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()
	for _, o := range observers {
		func() {
			defer func() { _ = recover() }()
			o.Notify(event)
		}()
	}
}
