package ledger

import (
	"context"
	"fmt"

	"github.com/algorand/go-deadlock"
	"github.com/shopspring/decimal"
)

type balanceKey struct {
	account string
	asset   string
}

// Memory is a Ledger kept in process memory.
type Memory struct {
	mu       deadlock.RWMutex
	balances map[balanceKey]decimal.Decimal
}

var (
	_ Ledger = (*Memory)(nil)
	_ Funder = (*Memory)(nil)
)

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{balances: make(map[balanceKey]decimal.Decimal)}
}

// BalanceOf implements Ledger.
func (m *Memory) BalanceOf(_ context.Context, account, asset string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[balanceKey{account, asset}], nil
}

// Transfer implements Ledger.
func (m *Memory) Transfer(_ context.Context, from, to, asset string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %w", ErrTransferFailed, ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src := balanceKey{from, asset}
	if m.balances[src].LessThan(amount) {
		return fmt.Errorf("%w: %w: %s holds %s %s, needs %s",
			ErrTransferFailed, ErrInsufficientBalance, from, m.balances[src], asset, amount)
	}
	m.balances[src] = m.balances[src].Sub(amount)
	dst := balanceKey{to, asset}
	m.balances[dst] = m.balances[dst].Add(amount)
	return nil
}

// Credit implements Funder.
func (m *Memory) Credit(_ context.Context, account, asset string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := balanceKey{account, asset}
	m.balances[key] = m.balances[key].Add(amount)
	return nil
}
