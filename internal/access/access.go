// Package access decides whether a caller may read or mutate a split.
// Every function is a pure predicate over its arguments.
package access

import (
	"errors"

	"github.com/mmynk/splitvault/internal/models"
)

var (
	// ErrAccessDenied is returned when a caller may not read a split's data.
	ErrAccessDenied = errors.New("access denied")

	// ErrOnlySplitBorrowers is returned when the caller is not a participant.
	ErrOnlySplitBorrowers = errors.New("only split borrowers can perform this operation")

	// ErrOnlySplitCreator is returned when the caller is not the creator.
	ErrOnlySplitCreator = errors.New("only the split creator can perform this operation")
)

// IsCreator reports whether caller posted the split.
func IsCreator(caller string, split *models.Split) bool {
	return caller != "" && caller == split.Creator
}

// FindParticipant returns caller's record if caller participates in the split.
func FindParticipant(caller string, split *models.Split) (*models.Participant, bool) {
	if caller == "" {
		return nil, false
	}
	return split.Participant(caller)
}

// CanReadSplit allows only the creator to read the full split.
func CanReadSplit(caller string, split *models.Split) error {
	if !IsCreator(caller, split) {
		return ErrAccessDenied
	}
	return nil
}

// RequireCreator allows only the creator.
func RequireCreator(caller string, split *models.Split) error {
	if !IsCreator(caller, split) {
		return ErrOnlySplitCreator
	}
	return nil
}

// RequireParticipant returns the caller's own record, or
// ErrOnlySplitBorrowers when the caller is not among the participants.
func RequireParticipant(caller string, split *models.Split) (*models.Participant, error) {
	p, ok := FindParticipant(caller, split)
	if !ok {
		return nil, ErrOnlySplitBorrowers
	}
	return p, nil
}
