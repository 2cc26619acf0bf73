package models

import "fmt"

// ParticipantState is a participant's position in the settlement lifecycle.
type ParticipantState uint8

const (
	StateUnapproved ParticipantState = iota
	StateApproved
	StatePaid
	StateWithdrawn
	StatePenalized
)

var stateNames = map[ParticipantState]string{
	StateUnapproved: "unapproved",
	StateApproved:   "approved",
	StatePaid:       "paid",
	StateWithdrawn:  "withdrawn",
	StatePenalized:  "penalized",
}

// allowedTransitions lists the only forward moves; nothing ever moves back.
var allowedTransitions = map[ParticipantState][]ParticipantState{
	StateUnapproved: {StateApproved},
	StateApproved:   {StatePaid, StatePenalized},
	StatePaid:       {StateWithdrawn},
	StateWithdrawn:  {},
	StatePenalized:  {},
}

func (s ParticipantState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ParticipantState(%d)", uint8(s))
}

// Valid reports whether s is a known state.
func (s ParticipantState) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// CanTransition reports whether a participant may move from s to next.
func (s ParticipantState) CanTransition(next ParticipantState) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s ParticipantState) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

// ParseParticipantState is the inverse of ParticipantState.String.
func ParseParticipantState(name string) (ParticipantState, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown participant state %q", name)
}
