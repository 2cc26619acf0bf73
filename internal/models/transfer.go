package models

import "github.com/shopspring/decimal"

// TransferKind names the reason a value movement happened.
type TransferKind string

const (
	TransferCollateralLock   TransferKind = "collateral_lock"
	TransferPayment          TransferKind = "payment"
	TransferPenalty          TransferKind = "penalty"
	TransferCollateralReturn TransferKind = "collateral_return"
)

// Transfer records one value movement performed on behalf of a split.
type Transfer struct {
	// ID is the unique identifier for the journal row (UUID format).
	ID string

	// SplitID is the split that caused the movement.
	SplitID SplitID

	// Kind says which settlement step moved the funds.
	Kind TransferKind

	// Participant is the participant whose record changed.
	Participant string

	From   string
	To     string
	Asset  string
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the movement was recorded.
	CreatedAt int64
}
