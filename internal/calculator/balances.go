package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitvault/internal/models"
)

// AccountFlow represents the value movements of one account within a split.
type AccountFlow struct {
	Account       string
	NetBalance    decimal.Decimal // Positive = received more than sent
	TotalSent     decimal.Decimal
	TotalReceived decimal.Decimal
}

// CalculateFlows aggregates a split's transfer journal per account.
// Custody appears as an account of its own, so its net balance is the
// collateral still held.
//
// Algorithm:
// - For each transfer: sender's TotalSent += amount, receiver's TotalReceived += amount
// - Aggregate: net_balance = total_received - total_sent
// - Output sorted by account for stable rendering
func CalculateFlows(transfers []models.Transfer) []AccountFlow {
	flows := make(map[string]*AccountFlow)

	get := func(account string) *AccountFlow {
		f, exists := flows[account]
		if !exists {
			f = &AccountFlow{
				Account:       account,
				NetBalance:    decimal.Zero,
				TotalSent:     decimal.Zero,
				TotalReceived: decimal.Zero,
			}
			flows[account] = f
		}
		return f
	}

	for _, t := range transfers {
		get(t.From).TotalSent = get(t.From).TotalSent.Add(t.Amount)
		get(t.To).TotalReceived = get(t.To).TotalReceived.Add(t.Amount)
	}

	result := make([]AccountFlow, 0, len(flows))
	for _, f := range flows {
		f.NetBalance = f.TotalReceived.Sub(f.TotalSent)
		result = append(result, *f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Account < result[j].Account })
	return result
}
