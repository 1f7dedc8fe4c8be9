package consensus

import "time"

type EventKind string

const (
	EventConsensusReached  EventKind = "consensusReached"
	EventConsensusRejected EventKind = "consensusRejected"
)

type Event struct {
	Kind       EventKind `json:"kind"`
	ProposalID string    `json:"proposal_id"`
	Approval   float64   `json:"approval"`
	At         time.Time `json:"at"`
}

// Observer receives consensus lifecycle notifications. Delivery is
// synchronous and in emission order; a panicking observer is isolated
// from the voting round.
type Observer interface {
	Notify(Event)
}

// Subscribe registers an observer for subsequent rounds.
func (b *Builder) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

func (b *Builder) notify(event Event) {
	b.mu.Lock()
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.mu.Unlock()
	for _, o := range observers {
		func() {
			defer func() { _ = recover() }()
			o.Notify(event)
		}()
	}
}
