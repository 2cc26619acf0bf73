package query

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitvault/internal/access"
	"github.com/mmynk/splitvault/internal/ledger"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/settlement"
	"github.com/mmynk/splitvault/internal/storage"
	"github.com/mmynk/splitvault/internal/storage/sqlite"
)

const (
	creator  = "0xcreator"
	alice    = "0xalice"
	bob      = "0xbob"
	stranger = "0xstranger"
	usdt     = "usdt"
)

type fixture struct {
	ctx     context.Context
	store   *sqlite.SQLiteStore
	ledger  *ledger.Memory
	engine  *settlement.Engine
	queries *Service
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "query.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		ctx:    context.Background(),
		store:  store,
		ledger: ledger.NewMemory(),
		now:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	f.engine = settlement.New(store, f.ledger,
		settlement.WithClock(func() time.Time { return f.now }),
		settlement.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	f.queries = New(store, f.ledger)
	return f
}

func (f *fixture) createSplit(t *testing.T, description string) models.SplitID {
	t.Helper()
	split, err := f.engine.CreateSplit(f.ctx, creator, settlement.CreateSplitParams{
		Asset:       usdt,
		TotalAmount: decimal.NewFromInt(30),
		Deadline:    f.now.Add(5 * 24 * time.Hour),
		Description: description,
		Participants: []settlement.ParticipantTerms{
			{Account: alice, OwedAmount: decimal.NewFromInt(10), CollateralAmount: decimal.NewFromInt(1)},
			{Account: bob, OwedAmount: decimal.NewFromInt(20), CollateralAmount: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	return split.ID
}

func TestGetMySplits_Pagination(t *testing.T) {
	f := newFixture(t)
	var ids []models.SplitID
	for _, desc := range []string{"rent", "groceries", "trip"} {
		ids = append(ids, f.createSplit(t, desc))
	}

	tests := []struct {
		name    string
		account string
		offset  int
		limit   int
		want    []models.SplitID
	}{
		{name: "all for creator", account: creator, offset: 0, limit: 10, want: ids},
		{name: "limit bounds result", account: alice, offset: 0, limit: 2, want: ids[:2]},
		{name: "offset", account: bob, offset: 1, limit: 10, want: ids[1:]},
		{name: "offset past end", account: creator, offset: 5, limit: 10, want: []models.SplitID{}},
		{name: "zero limit", account: creator, offset: 0, limit: 0, want: []models.SplitID{}},
		{name: "unknown account", account: stranger, offset: 0, limit: 10, want: []models.SplitID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.queries.GetMySplits(f.ctx, tt.account, tt.offset, tt.limit)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGetSplitData(t *testing.T) {
	f := newFixture(t)
	id := f.createSplit(t, "rent")

	split, err := f.queries.GetSplitData(f.ctx, id, creator)
	require.NoError(t, err)
	require.Equal(t, id, split.ID)
	require.Len(t, split.Participants, 2)

	_, err = f.queries.GetSplitData(f.ctx, id, stranger)
	require.ErrorIs(t, err, access.ErrAccessDenied)

	_, err = f.queries.GetSplitData(f.ctx, id, alice)
	require.ErrorIs(t, err, access.ErrAccessDenied)

	_, err = f.queries.GetSplitData(f.ctx, models.SplitID{7}, creator)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetSplitBorrowerData(t *testing.T) {
	f := newFixture(t)
	id := f.createSplit(t, "rent")
	require.NoError(t, f.ledger.Credit(f.ctx, alice, usdt, decimal.NewFromInt(5)))
	require.NoError(t, f.engine.ApproveAgreement(f.ctx, id, alice))

	p, err := f.queries.GetSplitBorrowerData(f.ctx, id, alice)
	require.NoError(t, err)
	require.Equal(t, alice, p.Account)
	require.True(t, p.AgreementApproved())
	require.False(t, p.PaidStatus())

	_, err = f.queries.GetSplitBorrowerData(f.ctx, id, stranger)
	require.ErrorIs(t, err, access.ErrOnlySplitBorrowers)

	_, err = f.queries.GetSplitBorrowerData(f.ctx, id, creator)
	require.ErrorIs(t, err, access.ErrOnlySplitBorrowers)
}

func TestGetSplitBorrowerDataForCreator(t *testing.T) {
	f := newFixture(t)
	id := f.createSplit(t, "rent")

	p, err := f.queries.GetSplitBorrowerDataForCreator(f.ctx, id, creator, bob)
	require.NoError(t, err)
	require.Equal(t, bob, p.Account)
	require.True(t, p.OwedAmount.Equal(decimal.NewFromInt(20)))

	_, err = f.queries.GetSplitBorrowerDataForCreator(f.ctx, id, alice, bob)
	require.ErrorIs(t, err, access.ErrOnlySplitCreator)

	_, err = f.queries.GetSplitBorrowerDataForCreator(f.ctx, id, creator, stranger)
	require.ErrorIs(t, err, storage.ErrParticipantNotFound)
}

func TestGetSplitActivity(t *testing.T) {
	f := newFixture(t)
	id := f.createSplit(t, "rent")
	require.NoError(t, f.ledger.Credit(f.ctx, alice, usdt, decimal.NewFromInt(20)))
	require.NoError(t, f.engine.ApproveAgreement(f.ctx, id, alice))
	require.NoError(t, f.engine.ApprovePayment(f.ctx, id, alice))

	activity, err := f.queries.GetSplitActivity(f.ctx, id, creator)
	require.NoError(t, err)
	require.Len(t, activity.Transfers, 2)
	require.Equal(t, 1, activity.Summary.Paid)
	require.Equal(t, 1, activity.Summary.Unapproved)
	require.True(t, activity.Summary.Collected.Equal(decimal.NewFromInt(10)))
	require.True(t, activity.Summary.CollateralHeld.Equal(decimal.NewFromInt(1)))
	require.Len(t, activity.Flows, 3)

	_, err = f.queries.GetSplitActivity(f.ctx, id, alice)
	require.ErrorIs(t, err, access.ErrAccessDenied)
}

func TestGetBalance(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Credit(f.ctx, alice, usdt, decimal.NewFromInt(42)))
	require.NoError(t, f.ledger.Credit(f.ctx, alice, models.NativeAsset, decimal.NewFromInt(3)))

	bal, err := f.queries.GetBalance(f.ctx, alice, usdt)
	require.NoError(t, err)
	require.True(t, bal.Equal(decimal.NewFromInt(42)))

	bal, err = f.queries.GetBalance(f.ctx, alice, "")
	require.NoError(t, err)
	require.True(t, bal.Equal(decimal.NewFromInt(3)))

	bal, err = f.queries.GetBalance(f.ctx, stranger, usdt)
	require.NoError(t, err)
	require.True(t, bal.IsZero())
}
