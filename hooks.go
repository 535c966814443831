package txtree

import "time"

// EventType identifies a transaction lifecycle event.
type EventType string

const (
	EventBegin            EventType = "begin"
	EventCommit           EventType = "commit"
	EventRollback         EventType = "rollback"
	EventValidationFailed EventType = "validation_failed"
)

// Event describes one lifecycle transition of a tree's transaction.
type Event struct {
	Type        EventType
	Transaction Transaction
	// Participants is the number of transactables notified by the walk.
	// For validation failures it is the number validated, including the failing one.
	Participants int
	// Duration is the time since the transaction began. Zero for EventBegin.
	Duration time.Duration
	// Err is the validation error for EventValidationFailed.
	Err error
}

// Hooks defines optional callbacks for transaction observability.
// They run synchronously on the root after the corresponding walk has completed.
type Hooks struct {
	OnBegin            func(*Event)
	OnCommit           func(*Event)
	OnRollback         func(*Event)
	OnValidationFailed func(*Event)
}

func (h Hooks) emit(e *Event) {
	var fn func(*Event)
	switch e.Type {
	case EventBegin:
		fn = h.OnBegin
	case EventCommit:
		fn = h.OnCommit
	case EventRollback:
		fn = h.OnRollback
	case EventValidationFailed:
		fn = h.OnValidationFailed
	}
	if fn != nil {
		fn(e)
	}
}

// Chain merges several Hooks into one that calls each in order.
func Chain(hooks ...Hooks) Hooks {
	call := func(pick func(Hooks) func(*Event)) func(*Event) {
		return func(e *Event) {
			for _, h := range hooks {
				if fn := pick(h); fn != nil {
					fn(e)
				}
			}
		}
	}
	return Hooks{
		OnBegin:            call(func(h Hooks) func(*Event) { return h.OnBegin }),
		OnCommit:           call(func(h Hooks) func(*Event) { return h.OnCommit }),
		OnRollback:         call(func(h Hooks) func(*Event) { return h.OnRollback }),
		OnValidationFailed: call(func(h Hooks) func(*Event) { return h.OnValidationFailed }),
	}
}
