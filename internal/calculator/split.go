package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitvault/internal/models"
)

// Summary aggregates the participant records of one split
type Summary struct {
	Participants int
	// Counts per lifecycle state
	Unapproved int
	Approved   int
	Paid       int
	Withdrawn  int
	Penalized  int

	TotalOwed           decimal.Decimal
	Collected           decimal.Decimal // Owed amounts that reached the creator
	Outstanding         decimal.Decimal // Owed amounts not yet paid
	CollateralHeld      decimal.Decimal // Currently sitting in custody
	CollateralSeized    decimal.Decimal
	CollateralReturned  decimal.Decimal
	CollateralCommitted decimal.Decimal // Sum over all participants, locked or not
}

// Summarize computes a Summary from the split's participant states.
// Based on the lifecycle: Approved and Paid hold collateral in custody,
// Withdrawn returned it, Penalized forfeited it to the creator.
func Summarize(split *models.Split) Summary {
	s := Summary{
		Participants:        len(split.Participants),
		TotalOwed:           decimal.Zero,
		Collected:           decimal.Zero,
		Outstanding:         decimal.Zero,
		CollateralHeld:      decimal.Zero,
		CollateralSeized:    decimal.Zero,
		CollateralReturned:  decimal.Zero,
		CollateralCommitted: decimal.Zero,
	}

	for _, p := range split.Participants {
		s.TotalOwed = s.TotalOwed.Add(p.OwedAmount)
		s.CollateralCommitted = s.CollateralCommitted.Add(p.CollateralAmount)

		if p.PaidStatus() {
			s.Collected = s.Collected.Add(p.OwedAmount)
		} else {
			s.Outstanding = s.Outstanding.Add(p.OwedAmount)
		}

		switch p.State {
		case models.StateUnapproved:
			s.Unapproved++
		case models.StateApproved:
			s.Approved++
			s.CollateralHeld = s.CollateralHeld.Add(p.CollateralAmount)
		case models.StatePaid:
			s.Paid++
			s.CollateralHeld = s.CollateralHeld.Add(p.CollateralAmount)
		case models.StateWithdrawn:
			s.Withdrawn++
			s.CollateralReturned = s.CollateralReturned.Add(p.CollateralAmount)
		case models.StatePenalized:
			s.Penalized++
			s.CollateralSeized = s.CollateralSeized.Add(p.CollateralAmount)
		}
	}

	return s
}

// Settled reports whether every participant reached a terminal state or paid.
func (s Summary) Settled() bool {
	return s.Unapproved == 0 && s.Approved == 0
}
