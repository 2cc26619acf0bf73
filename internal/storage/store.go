// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitvault/internal/models"
)

var (
	// ErrNotFound is returned when a split does not exist.
	ErrNotFound = errors.New("split not found")

	// ErrDuplicateIdentifier is returned when a split id is already taken.
	ErrDuplicateIdentifier = errors.New("duplicate split identifier")

	// ErrParticipantNotFound is returned when an account is not part of a split.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when an email or address is already registered.
	ErrAccountExists = errors.New("account already exists")
)

// MutateFunc updates a participant record in place. The split is the
// current stored snapshot; fn may also adjust split-level counters.
// Returning an error aborts the mutation without persisting anything.
type MutateFunc func(split *models.Split, participant *models.Participant) error

// Store defines the agreement store. This abstraction allows swapping
// storage backends (SQLite, PostgreSQL, etc.) without changing the
// settlement engine.
type Store interface {
	// NextNonce reserves the next sequence number for creator.
	NextNonce(ctx context.Context, creator string) (uint64, error)

	// InsertSplit persists a new split and appends its id to the index of
	// the creator and of every participant. It fails with
	// ErrDuplicateIdentifier rather than overwrite.
	InsertSplit(ctx context.Context, split *models.Split) error

	// GetSplit returns a copy of the split, or ErrNotFound.
	GetSplit(ctx context.Context, id models.SplitID) (*models.Split, error)

	// MutateParticipant applies fn to one participant and persists the
	// result together with the journal rows, atomically.
	MutateParticipant(ctx context.Context, id models.SplitID, account string, fn MutateFunc, journal ...models.Transfer) error

	// ListSplitIDs returns a page of the account's involvement index in
	// insertion order. An offset past the end yields an empty slice.
	ListSplitIDs(ctx context.Context, account string, offset, limit int) ([]models.SplitID, error)

	// ListTransfers returns the journal rows of a split in insertion order.
	ListTransfers(ctx context.Context, id models.SplitID) ([]models.Transfer, error)

	// Close releases any resources held by the store.
	Close() error
}

// AccountStore persists registered accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByAddress(ctx context.Context, address string) (*models.Account, error)
}
