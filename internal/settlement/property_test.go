package settlement

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mmynk/splitvault/internal/ledger"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/storage/sqlite"
)

// TestSettlementConservesValue drives a split through random operation
// sequences and checks that no value is created or lost, that custody always
// holds exactly the collateral of participants still in Approved or Paid, and
// that participants only ever move along legal transitions.
func TestSettlementConservesValue(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir, err := os.MkdirTemp("", "splitvault-rapid-*")
		require.NoError(rt, err)
		defer os.RemoveAll(dir)

		store, err := sqlite.New(filepath.Join(dir, "rapid.db"))
		require.NoError(rt, err)
		defer store.Close()

		ctx := context.Background()
		l := ledger.NewMemory()
		now := start
		engine := New(store, l,
			WithClock(func() time.Time { return now }),
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)

		accounts := []string{alice, bob}
		params := CreateSplitParams{
			Asset:       usdt,
			TotalAmount: amount(100),
			Deadline:    start.Add(24 * time.Hour),
			Description: "rapid",
		}
		for _, account := range accounts {
			params.Participants = append(params.Participants, ParticipantTerms{
				Account:          account,
				OwedAmount:       amount(int64(rapid.IntRange(0, 20).Draw(rt, "owed"))),
				CollateralAmount: amount(int64(rapid.IntRange(0, 5).Draw(rt, "collateral"))),
			})
			funds := int64(rapid.IntRange(0, 30).Draw(rt, "funds"))
			require.NoError(rt, l.Credit(ctx, account, usdt, amount(funds)))
		}
		split, err := engine.CreateSplit(ctx, creator, params)
		require.NoError(rt, err)
		custody := models.CustodyAccount(split.ID)

		everyone := append([]string{creator, custody}, accounts...)
		total := func() decimal.Decimal {
			sum := decimal.Zero
			for _, account := range everyone {
				bal, err := l.BalanceOf(ctx, account, usdt)
				require.NoError(rt, err)
				sum = sum.Add(bal)
			}
			return sum
		}
		supply := total()

		states := map[string]models.ParticipantState{alice: models.StateUnapproved, bob: models.StateUnapproved}
		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			who := rapid.SampledFrom(accounts).Draw(rt, "who")
			var opErr error
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				opErr = engine.ApproveAgreement(ctx, split.ID, who)
			case 1:
				opErr = engine.ApprovePayment(ctx, split.ID, who)
			case 2:
				opErr = engine.LevyPenalty(ctx, split.ID, creator, who)
			case 3:
				opErr = engine.WithdrawCollateral(ctx, split.ID, who)
			case 4:
				now = now.Add(time.Duration(rapid.IntRange(1, 36).Draw(rt, "hours")) * time.Hour)
			}
			if opErr != nil {
				reason := Reason(opErr)
				require.NotEqual(rt, "Internal", reason, "unexpected error: %v", opErr)
				require.NotEqual(rt, "StaleState", reason, "unexpected error: %v", opErr)
			}

			current, err := store.GetSplit(ctx, split.ID)
			require.NoError(rt, err)

			held := decimal.Zero
			unpaid := 0
			for _, p := range current.Participants {
				prev := states[p.Account]
				require.True(rt, prev == p.State || prev.CanTransition(p.State),
					"%s moved %s -> %s", p.Account, prev, p.State)
				states[p.Account] = p.State

				require.False(rt, p.PenaltyLevied() && p.CollateralWithdrawn())
				if p.State == models.StateApproved || p.State == models.StatePaid {
					held = held.Add(p.CollateralAmount)
				}
				if !p.PaidStatus() {
					unpaid++
				}
			}
			bal, err := l.BalanceOf(ctx, custody, usdt)
			require.NoError(rt, err)
			require.True(rt, bal.Equal(held), "custody holds %s, expected %s", bal, held)
			require.True(rt, total().Equal(supply), "supply changed")
			require.Equal(rt, unpaid, current.RemainingPayments)
		}
		require.Zero(rt, engine.locks.held())
	})
}
