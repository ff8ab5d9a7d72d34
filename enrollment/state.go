package enrollment

import "fmt"

type State string

const (
	StateInitial         State = "initial"
	StateCreatingIntent  State = "creatingIntent"
	StateAwaitingPayment State = "awaitingPayment"
	StateProcessing      State = "processing"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

type Event string

const (
	EventEnroll        Event = "enroll"
	EventIntentCreated Event = "intentCreated"
	EventIntentFailed  Event = "intentFailed"
	EventSubmit        Event = "submit"
	EventConfirmed     Event = "confirmed"
	EventConfirmFailed Event = "confirmFailed"
	EventDismiss       Event = "dismiss"
)

var transitions = map[State]map[Event]State{
	StateInitial: {
		EventEnroll: StateCreatingIntent,
	},
	StateCreatingIntent: {
		EventIntentCreated: StateAwaitingPayment,
		EventIntentFailed:  StateInitial,
	},
	StateAwaitingPayment: {
		EventSubmit: StateProcessing,
	},
	StateProcessing: {
		EventConfirmed:     StateSucceeded,
		EventConfirmFailed: StateFailed,
	},
	StateFailed: {
		EventEnroll: StateCreatingIntent,
	},
}

// Transition is the pure state function of one enrollment attempt.
// Dismiss is accepted from every state and returns the card to initial.
func Transition(s State, e Event) (State, error) {
	if e == EventDismiss {
		if _, ok := transitions[s]; ok || s == StateSucceeded {
			return StateInitial, nil
		}
	}
	if next, ok := transitions[s][e]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}

// Terminal reports whether the attempt can no longer change without a new
// attempt or a dismissal.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}
