// Package ledger defines the asset-transfer collaborator used to move value
// between accounts, and an in-memory implementation of it.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrTransferFailed is returned when a transfer could not be applied.
	// No partial movement happens when it is returned.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrInsufficientBalance is wrapped by ErrTransferFailed when the sender
	// cannot cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned for negative amounts.
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// Ledger moves value between accounts.
type Ledger interface {
	// BalanceOf returns the balance of account in asset; unknown accounts hold zero.
	BalanceOf(ctx context.Context, account, asset string) (decimal.Decimal, error)

	// Transfer atomically moves amount of asset from one account to another.
	Transfer(ctx context.Context, from, to, asset string, amount decimal.Decimal) error
}

// Funder credits accounts from outside the system (faucets, deposits).
type Funder interface {
	Credit(ctx context.Context, account, asset string, amount decimal.Decimal) error
}
