package settlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitvault/internal/access"
	"github.com/mmynk/splitvault/internal/identity"
	"github.com/mmynk/splitvault/internal/ledger"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/storage"
	"github.com/mmynk/splitvault/internal/storage/sqlite"
)

const (
	creator = "0xcreator"
	alice   = "0xalice"
	bob     = "0xbob"
	carol   = "0xcarol"
	mallory = "0xmallory"
	usdt    = "usdt"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	t      *testing.T
	ctx    context.Context
	store  *sqlite.SQLiteStore
	ledger *ledger.Memory
	engine *Engine
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := &harness{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		ledger: ledger.NewMemory(),
		now:    start,
	}
	h.engine = h.newEngine(store)
	return h
}

func (h *harness) newEngine(store storage.Store) *Engine {
	return New(store, h.ledger,
		WithClock(func() time.Time { return h.now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// defaultParams are the terms used throughout the original test suite:
// total 50, deadline in five days, three participants owing 10/20/20 with
// collateral 1/2/2.
func defaultParams(description string) CreateSplitParams {
	return CreateSplitParams{
		Asset:       usdt,
		TotalAmount: amount(50),
		Deadline:    start.Add(5 * 24 * time.Hour),
		Description: description,
		Participants: []ParticipantTerms{
			{Account: alice, OwedAmount: amount(10), CollateralAmount: amount(1)},
			{Account: bob, OwedAmount: amount(20), CollateralAmount: amount(2)},
			{Account: carol, OwedAmount: amount(20), CollateralAmount: amount(2)},
		},
	}
}

func (h *harness) create(params CreateSplitParams) models.SplitID {
	h.t.Helper()
	split, err := h.engine.CreateSplit(h.ctx, creator, params)
	require.NoError(h.t, err)
	return split.ID
}

func (h *harness) fund(account string, v int64) {
	h.t.Helper()
	require.NoError(h.t, h.ledger.Credit(h.ctx, account, usdt, amount(v)))
}

func (h *harness) balance(account string) decimal.Decimal {
	h.t.Helper()
	bal, err := h.ledger.BalanceOf(h.ctx, account, usdt)
	require.NoError(h.t, err)
	return bal
}

func (h *harness) requireBalance(account string, want int64) {
	h.t.Helper()
	got := h.balance(account)
	require.True(h.t, got.Equal(amount(want)), "balance of %s = %s, want %d", account, got, want)
}

func (h *harness) participant(id models.SplitID, account string) models.Participant {
	h.t.Helper()
	split, err := h.store.GetSplit(h.ctx, id)
	require.NoError(h.t, err)
	p, ok := split.Participant(account)
	require.True(h.t, ok)
	return *p
}

func TestCreateSplit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *CreateSplitParams)
		wantErr error
	}{
		{
			name:    "deadline equal to now",
			mutate:  func(p *CreateSplitParams) { p.Deadline = start },
			wantErr: ErrInvalidLockTime,
		},
		{
			name:    "deadline in the past",
			mutate:  func(p *CreateSplitParams) { p.Deadline = start.Add(-time.Hour) },
			wantErr: ErrInvalidLockTime,
		},
		{
			name:    "no participants",
			mutate:  func(p *CreateSplitParams) { p.Participants = nil },
			wantErr: ErrInvalidParticipantsCount,
		},
		{
			name:    "zero total",
			mutate:  func(p *CreateSplitParams) { p.TotalAmount = decimal.Zero },
			wantErr: ErrZeroSplitAmount,
		},
		{
			name:    "negative total",
			mutate:  func(p *CreateSplitParams) { p.TotalAmount = amount(-5) },
			wantErr: ErrZeroSplitAmount,
		},
		{
			name: "duplicate participant",
			mutate: func(p *CreateSplitParams) {
				p.Participants = append(p.Participants, ParticipantTerms{Account: alice, OwedAmount: amount(1)})
			},
			wantErr: ErrInvalidParticipant,
		},
		{
			name:    "negative collateral",
			mutate:  func(p *CreateSplitParams) { p.Participants[0].CollateralAmount = amount(-1) },
			wantErr: ErrInvalidParticipant,
		},
		{
			name:    "total with a huge exponent",
			mutate:  func(p *CreateSplitParams) { p.TotalAmount = decimal.New(1, 2000000) },
			wantErr: ErrAmountOutOfRange,
		},
		{
			name:    "owed amount with a huge exponent",
			mutate:  func(p *CreateSplitParams) { p.Participants[0].OwedAmount = decimal.New(1, 2000000) },
			wantErr: ErrInvalidParticipant,
		},
		{
			name:    "collateral with too many fractional digits",
			mutate:  func(p *CreateSplitParams) { p.Participants[1].CollateralAmount = decimal.New(1, -40) },
			wantErr: ErrInvalidParticipant,
		},
		{
			name: "deadline is checked before participants",
			mutate: func(p *CreateSplitParams) {
				p.Deadline = start
				p.Participants = nil
				p.TotalAmount = decimal.Zero
			},
			wantErr: ErrInvalidLockTime,
		},
		{
			name: "participants are checked before total",
			mutate: func(p *CreateSplitParams) {
				p.Participants = nil
				p.TotalAmount = decimal.Zero
			},
			wantErr: ErrInvalidParticipantsCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			params := defaultParams("Split 1")
			tt.mutate(&params)

			_, err := h.engine.CreateSplit(h.ctx, creator, params)
			require.ErrorIs(t, err, tt.wantErr)

			ids, err := h.store.ListSplitIDs(h.ctx, creator, 0, 5)
			require.NoError(t, err)
			require.Empty(t, ids)
		})
	}
}

func TestCreateSplit_Identifiers(t *testing.T) {
	h := newHarness(t)

	first := h.create(defaultParams("Split 1"))
	require.Regexp(t, regexp.MustCompile(`^0x[0-9a-f]{64}$`), first.String())
	require.Equal(t, identity.Derive(creator, "Split 1", 0), first)

	ids, err := h.store.ListSplitIDs(h.ctx, creator, 0, 5)
	require.NoError(t, err)
	require.Equal(t, []models.SplitID{first}, ids)

	second := h.create(defaultParams("Split 2"))
	require.NotEqual(t, first, second)

	// Same description again gets a fresh nonce.
	third := h.create(defaultParams("Split 1"))
	require.NotEqual(t, first, third)
	require.Equal(t, identity.Derive(creator, "Split 1", 2), third)

	ids, err = h.store.ListSplitIDs(h.ctx, alice, 0, 5)
	require.NoError(t, err)
	require.Equal(t, []models.SplitID{first, second, third}, ids)
}

func TestCreateSplit_StoresTerms(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))

	split, err := h.store.GetSplit(h.ctx, id)
	require.NoError(t, err)
	require.Equal(t, creator, split.Creator)
	require.Equal(t, usdt, split.Asset)
	require.True(t, split.TotalAmount.Equal(amount(50)))
	require.True(t, split.Deadline.Equal(start.Add(5*24*time.Hour)))
	require.Equal(t, "Split 1", split.Description)
	require.Equal(t, 3, split.RemainingPayments)
	require.Len(t, split.Participants, 3)
	for i, want := range []string{alice, bob, carol} {
		require.Equal(t, want, split.Participants[i].Account)
		require.Equal(t, models.StateUnapproved, split.Participants[i].State)
	}
}

func TestCreateSplit_DuplicateIdentifier(t *testing.T) {
	h := newHarness(t)

	// Occupy the id the creator's first split will derive.
	squatter := &models.Split{
		ID:                identity.Derive(creator, "Split 1", 0),
		Creator:           mallory,
		Asset:             usdt,
		TotalAmount:       amount(1),
		Deadline:          start.Add(time.Hour),
		Participants:      []models.Participant{{Account: mallory, OwedAmount: amount(1)}},
		RemainingPayments: 1,
	}
	require.NoError(t, h.store.InsertSplit(h.ctx, squatter))

	_, err := h.engine.CreateSplit(h.ctx, creator, defaultParams("Split 1"))
	require.ErrorIs(t, err, storage.ErrDuplicateIdentifier)

	split, err := h.store.GetSplit(h.ctx, squatter.ID)
	require.NoError(t, err)
	require.Equal(t, mallory, split.Creator)
}

// Scenario C: approve, pay, withdraw, and withdraw again.
func TestSettlement_PayAndWithdraw(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	custody := models.CustodyAccount(id)
	h.fund(alice, 50)

	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))
	h.requireBalance(alice, 49)
	h.requireBalance(custody, 1)
	require.True(t, h.participant(id, alice).AgreementApproved())

	require.NoError(t, h.engine.ApprovePayment(h.ctx, id, alice))
	h.requireBalance(alice, 39)
	h.requireBalance(creator, 10)
	p := h.participant(id, alice)
	require.True(t, p.PaidStatus())
	require.True(t, p.PaymentApproved())

	split, err := h.store.GetSplit(h.ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, split.RemainingPayments)

	require.NoError(t, h.engine.WithdrawCollateral(h.ctx, id, alice))
	h.requireBalance(alice, 40)
	h.requireBalance(custody, 0)
	require.True(t, h.participant(id, alice).CollateralWithdrawn())

	err = h.engine.WithdrawCollateral(h.ctx, id, alice)
	require.ErrorIs(t, err, ErrCollateralAlreadyWithdrawn)
	require.Equal(t, "CollateralAlreadyWithdrawed", Reason(err))
	h.requireBalance(alice, 40)

	// Paid participants cannot be penalized, even after the deadline.
	h.now = split.Deadline.Add(time.Hour)
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, alice), ErrBorrowerAlreadyPaid)

	transfers, err := h.store.ListTransfers(h.ctx, id)
	require.NoError(t, err)
	require.Len(t, transfers, 3)
	require.Equal(t, models.TransferCollateralLock, transfers[0].Kind)
	require.Equal(t, models.TransferPayment, transfers[1].Kind)
	require.Equal(t, models.TransferCollateralReturn, transfers[2].Kind)
}

// Scenario D: approve, never pay, get penalized after the deadline.
func TestSettlement_Penalty(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	custody := models.CustodyAccount(id)
	h.fund(alice, 50)

	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))

	err := h.engine.LevyPenalty(h.ctx, id, creator, alice)
	require.ErrorIs(t, err, ErrCannotLevyPenaltyBeforeLockTime)

	h.now = start.Add(6 * 24 * time.Hour)
	require.NoError(t, h.engine.LevyPenalty(h.ctx, id, creator, alice))
	h.requireBalance(custody, 0)
	h.requireBalance(creator, 1)
	require.True(t, h.participant(id, alice).PenaltyLevied())

	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, alice), ErrPenaltyAlreadyLevied)
	require.ErrorIs(t, h.engine.WithdrawCollateral(h.ctx, id, alice), ErrPenaltyLeviedByLender)
	require.ErrorIs(t, h.engine.ApprovePayment(h.ctx, id, alice), ErrPenaltyLeviedByLender)
	h.requireBalance(alice, 49)
	h.requireBalance(creator, 1)
}

func TestLevyPenalty_AtDeadline(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)
	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))

	h.now = start.Add(5 * 24 * time.Hour)
	require.NoError(t, h.engine.LevyPenalty(h.ctx, id, creator, alice))
}

func TestLevyPenalty_BeforeDeadlineRegardlessOfState(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)

	// bob never approved, alice approved, carol approved and paid
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, bob), ErrCannotLevyPenaltyBeforeLockTime)

	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, alice), ErrCannotLevyPenaltyBeforeLockTime)

	h.fund(carol, 50)
	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, carol))
	require.NoError(t, h.engine.ApprovePayment(h.ctx, id, carol))
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, carol), ErrCannotLevyPenaltyBeforeLockTime)
}

func TestLevyPenalty_Preconditions(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.now = start.Add(6 * 24 * time.Hour)

	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, alice, alice), access.ErrOnlySplitCreator)
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, mallory), storage.ErrParticipantNotFound)
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, alice), ErrAgreementNotApproved)
}

func TestApproveAgreement_Twice(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)

	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))
	err := h.engine.ApproveAgreement(h.ctx, id, alice)
	require.ErrorIs(t, err, ErrAgreementAlreadyApproved)
	h.requireBalance(alice, 49)
	h.requireBalance(models.CustodyAccount(id), 1)
}

func TestApprovePayment_BeforeAgreement(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)

	require.ErrorIs(t, h.engine.ApprovePayment(h.ctx, id, alice), ErrAgreementNotApproved)
	h.requireBalance(alice, 50)
	h.requireBalance(creator, 0)
}

func TestApprovePayment_Twice(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)

	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))
	require.NoError(t, h.engine.ApprovePayment(h.ctx, id, alice))
	require.ErrorIs(t, h.engine.ApprovePayment(h.ctx, id, alice), ErrBorrowerAlreadyPaid)
	h.requireBalance(creator, 10)
}

func TestWithdrawCollateral_BeforePayment(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)

	require.ErrorIs(t, h.engine.WithdrawCollateral(h.ctx, id, alice), ErrAgreementNotApproved)
	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))
	require.ErrorIs(t, h.engine.WithdrawCollateral(h.ctx, id, alice), ErrOwedAmountNotPaid)
}

func TestZeroCollateral(t *testing.T) {
	h := newHarness(t)
	params := defaultParams("Split 1")
	params.Participants[0].CollateralAmount = decimal.Zero
	id := h.create(params)

	// Opting in with zero collateral needs no funds.
	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))
	h.requireBalance(alice, 0)

	h.now = start.Add(6 * 24 * time.Hour)
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, creator, alice), ErrAgreementHasZeroCollateral)
	require.ErrorIs(t, h.engine.WithdrawCollateral(h.ctx, id, alice), ErrAgreementHasZeroCollateral)

	transfers, err := h.store.ListTransfers(h.ctx, id)
	require.NoError(t, err)
	require.Empty(t, transfers)
}

func TestAuthorization(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))

	require.ErrorIs(t, h.engine.ApproveAgreement(h.ctx, id, mallory), access.ErrOnlySplitBorrowers)
	require.ErrorIs(t, h.engine.ApprovePayment(h.ctx, id, mallory), access.ErrOnlySplitBorrowers)
	require.ErrorIs(t, h.engine.WithdrawCollateral(h.ctx, id, creator), access.ErrOnlySplitBorrowers)
	require.ErrorIs(t, h.engine.LevyPenalty(h.ctx, id, bob, alice), access.ErrOnlySplitCreator)

	require.ErrorIs(t, h.engine.ApproveAgreement(h.ctx, models.SplitID{1}, alice), storage.ErrNotFound)
}

func TestTransferFailure_LeavesStateUnchanged(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))

	err := h.engine.ApproveAgreement(h.ctx, id, bob)
	require.ErrorIs(t, err, ledger.ErrTransferFailed)
	require.Equal(t, "TransferFailed", Reason(err))
	require.Equal(t, models.StateUnapproved, h.participant(id, bob).State)

	// Collateral covered but not the owed amount.
	h.fund(bob, 2)
	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, bob))
	require.ErrorIs(t, h.engine.ApprovePayment(h.ctx, id, bob), ledger.ErrTransferFailed)
	require.Equal(t, models.StateApproved, h.participant(id, bob).State)
	h.requireBalance(creator, 0)
}

// failingStore refuses every participant mutation.
type failingStore struct {
	storage.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) MutateParticipant(context.Context, models.SplitID, string, storage.MutateFunc, ...models.Transfer) error {
	return errDiskFull
}

func TestFailedWriteReversesTransfer(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)

	engine := h.newEngine(failingStore{h.store})
	err := engine.ApproveAgreement(h.ctx, id, alice)
	require.ErrorIs(t, err, errDiskFull)

	h.requireBalance(alice, 50)
	h.requireBalance(models.CustodyAccount(id), 0)
	require.Equal(t, models.StateUnapproved, h.participant(id, alice).State)
}

func TestConcurrentApprovalsMoveCollateralOnce(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.engine.ApproveAgreement(h.ctx, id, alice)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrAgreementAlreadyApproved)
	}
	require.Equal(t, 1, succeeded)
	h.requireBalance(alice, 49)
	h.requireBalance(models.CustodyAccount(id), 1)
	require.Zero(t, h.engine.locks.held())
}

func TestConcurrentLevyAndWithdrawAreExclusive(t *testing.T) {
	h := newHarness(t)
	id := h.create(defaultParams("Split 1"))
	h.fund(alice, 50)
	require.NoError(t, h.engine.ApproveAgreement(h.ctx, id, alice))
	require.NoError(t, h.engine.ApprovePayment(h.ctx, id, alice))
	h.now = start.Add(6 * 24 * time.Hour)

	var wg sync.WaitGroup
	var levyErr, withdrawErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		levyErr = h.engine.LevyPenalty(h.ctx, id, creator, alice)
	}()
	go func() {
		defer wg.Done()
		withdrawErr = h.engine.WithdrawCollateral(h.ctx, id, alice)
	}()
	wg.Wait()

	require.ErrorIs(t, levyErr, ErrBorrowerAlreadyPaid)
	require.NoError(t, withdrawErr)
	p := h.participant(id, alice)
	require.False(t, p.PenaltyLevied())
	require.True(t, p.CollateralWithdrawn())
}
