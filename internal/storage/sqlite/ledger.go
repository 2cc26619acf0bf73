package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitvault/internal/ledger"
)

// Ledger keeps asset balances in the same database as the splits.
// Every transfer runs in its own transaction.
type Ledger struct {
	db *sql.DB
}

var (
	_ ledger.Ledger = (*Ledger)(nil)
	_ ledger.Funder = (*Ledger)(nil)
)

// Ledger returns the balance ledger backed by this store's database.
func (s *SQLiteStore) Ledger() *Ledger {
	return &Ledger{db: s.db}
}

// BalanceOf implements ledger.Ledger.
func (l *Ledger) BalanceOf(ctx context.Context, account, asset string) (decimal.Decimal, error) {
	return balance(ctx, l.db, account, asset)
}

// Transfer implements ledger.Ledger.
func (l *Ledger) Transfer(ctx context.Context, from, to, asset string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %w", ledger.ErrTransferFailed, ledger.ErrInvalidAmount)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", ledger.ErrTransferFailed, err)
	}
	defer tx.Rollback()

	src, err := balance(ctx, tx, from, asset)
	if err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrTransferFailed, err)
	}
	if src.LessThan(amount) {
		return fmt.Errorf("%w: %w: %s holds %s %s, needs %s",
			ledger.ErrTransferFailed, ledger.ErrInsufficientBalance, from, src, asset, amount)
	}
	if err := adjust(ctx, tx, from, asset, amount.Neg()); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrTransferFailed, err)
	}
	if err := adjust(ctx, tx, to, asset, amount); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrTransferFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %w", ledger.ErrTransferFailed, err)
	}
	return nil
}

// Credit implements ledger.Funder.
func (l *Ledger) Credit(ctx context.Context, account, asset string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ledger.ErrInvalidAmount
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := adjust(ctx, tx, account, asset, amount); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func balance(ctx context.Context, q querier, account, asset string) (decimal.Decimal, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		"SELECT amount FROM balances WHERE account = ? AND asset = ?",
		account, asset,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
	}
	return amount, nil
}

// adjust adds delta to a balance. Decimal arithmetic happens in Go; SQLite
// would round TEXT amounts through REAL.
func adjust(ctx context.Context, tx *sql.Tx, account, asset string, delta decimal.Decimal) error {
	current, err := balance(ctx, tx, account, asset)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO balances (account, asset, amount) VALUES (?, ?, ?)
		 ON CONFLICT(account, asset) DO UPDATE SET amount = excluded.amount`,
		account, asset, current.Add(delta).String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}
