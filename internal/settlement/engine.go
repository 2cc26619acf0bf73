// Package settlement implements the split lifecycle: creation and the four
// per-participant transitions that move value. It is the only package that
// calls the ledger.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitvault/internal/access"
	"github.com/mmynk/splitvault/internal/identity"
	"github.com/mmynk/splitvault/internal/ledger"
	"github.com/mmynk/splitvault/internal/metrics"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/storage"
)

// Clock supplies the current time.
type Clock func() time.Time

// Engine runs settlement operations. Operations on the same
// (split, participant) pair are serialized; everything else runs in parallel.
type Engine struct {
	store   storage.Store
	ledger  ledger.Ledger
	now     Clock
	locks   *keyedMutex
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source (defaults to time.Now).
func WithClock(c Clock) Option {
	return func(e *Engine) { e.now = c }
}

// WithMetrics records operation outcomes and moved amounts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger overrides the logger (defaults to slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over the given store and ledger.
func New(store storage.Store, l ledger.Ledger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		ledger: l,
		now:    time.Now,
		locks:  newKeyedMutex(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParticipantTerms are the fixed terms of one participant.
type ParticipantTerms struct {
	Account          string
	OwedAmount       decimal.Decimal
	CollateralAmount decimal.Decimal
}

// CreateSplitParams describe a new split.
type CreateSplitParams struct {
	// Asset defaults to models.NativeAsset when empty.
	Asset        string
	TotalAmount  decimal.Decimal
	Deadline     time.Time
	Description  string
	Participants []ParticipantTerms
}

// CreateSplit validates params and stores a new split posted by caller.
// Checks run in this order: deadline, participant count, total amount
// (range, then sign), participant terms, identifier uniqueness.
func (e *Engine) CreateSplit(ctx context.Context, caller string, params CreateSplitParams) (_ *models.Split, err error) {
	defer func() { e.observe("create_split", err) }()

	if caller == "" {
		return nil, fmt.Errorf("%w: missing caller", access.ErrAccessDenied)
	}

	now := e.now()
	deadline := time.Unix(params.Deadline.Unix(), 0).UTC()
	if !deadline.After(now) {
		return nil, fmt.Errorf("%w: %s is not after %s", ErrInvalidLockTime, deadline.Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	if len(params.Participants) == 0 {
		return nil, ErrInvalidParticipantsCount
	}
	if err := CheckAmount(params.TotalAmount); err != nil {
		return nil, fmt.Errorf("total amount: %w", err)
	}
	if !params.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrZeroSplitAmount, params.TotalAmount)
	}
	if err := validateTerms(params.Participants); err != nil {
		return nil, err
	}

	asset := params.Asset
	if asset == "" {
		asset = models.NativeAsset
	}

	// One creation at a time per creator keeps nonces and inserts in step.
	unlock := e.locks.Lock("creator:" + caller)
	defer unlock()

	nonce, err := e.store.NextNonce(ctx, caller)
	if err != nil {
		return nil, err
	}

	split := &models.Split{
		ID:                identity.Derive(caller, params.Description, nonce),
		Creator:           caller,
		Asset:             asset,
		TotalAmount:       params.TotalAmount,
		Deadline:          deadline,
		Description:       params.Description,
		Participants:      make([]models.Participant, len(params.Participants)),
		RemainingPayments: len(params.Participants),
		Nonce:             nonce,
		CreatedAt:         now.Unix(),
	}
	for i, terms := range params.Participants {
		split.Participants[i] = models.Participant{
			Account:          terms.Account,
			OwedAmount:       terms.OwedAmount,
			CollateralAmount: terms.CollateralAmount,
			State:            models.StateUnapproved,
		}
	}

	if err := e.store.InsertSplit(ctx, split); err != nil {
		return nil, err
	}

	e.logger.Info("Split created",
		"split_id", split.ID.String(),
		"creator", caller,
		"asset", asset,
		"total", split.TotalAmount,
		"participants", len(split.Participants),
		"deadline", split.Deadline,
	)
	return split.Clone(), nil
}

func validateTerms(terms []ParticipantTerms) error {
	seen := make(map[string]bool, len(terms))
	for i, t := range terms {
		switch {
		case t.Account == "":
			return fmt.Errorf("%w: participant %d has no account", ErrInvalidParticipant, i)
		case seen[t.Account]:
			return fmt.Errorf("%w: %s listed twice", ErrInvalidParticipant, t.Account)
		case t.OwedAmount.IsNegative():
			return fmt.Errorf("%w: %s owes a negative amount", ErrInvalidParticipant, t.Account)
		case t.CollateralAmount.IsNegative():
			return fmt.Errorf("%w: %s has negative collateral", ErrInvalidParticipant, t.Account)
		case CheckAmount(t.OwedAmount) != nil:
			return fmt.Errorf("%w: %s owed amount out of range", ErrInvalidParticipant, t.Account)
		case CheckAmount(t.CollateralAmount) != nil:
			return fmt.Errorf("%w: %s collateral out of range", ErrInvalidParticipant, t.Account)
		}
		seen[t.Account] = true
	}
	return nil
}

// participantKey names the lock guarding one participant record.
func participantKey(id models.SplitID, account string) string {
	return id.String() + "/" + account
}

// apply performs t (when it moves a positive amount) and then persists the
// participant's move from -> to. A failed transfer leaves everything as it
// was; a failed write after a successful transfer is undone by moving the
// funds back.
func (e *Engine) apply(ctx context.Context, split *models.Split, account string, from, to models.ParticipantState, t models.Transfer) error {
	var journal []models.Transfer
	if t.Amount.IsPositive() {
		if err := e.ledger.Transfer(ctx, t.From, t.To, t.Asset, t.Amount); err != nil {
			return err
		}
		t.CreatedAt = e.now().Unix()
		journal = append(journal, t)
	}

	err := e.store.MutateParticipant(ctx, split.ID, account, func(s *models.Split, p *models.Participant) error {
		if p.State != from || !from.CanTransition(to) {
			return fmt.Errorf("%w: %s is %s, expected %s", ErrStaleState, account, p.State, from)
		}
		p.State = to
		if to == models.StatePaid {
			s.RemainingPayments--
		}
		return nil
	}, journal...)
	if err != nil {
		if len(journal) > 0 {
			if rerr := e.ledger.Transfer(context.WithoutCancel(ctx), t.To, t.From, t.Asset, t.Amount); rerr != nil {
				e.logger.Error("Failed to reverse transfer",
					"split_id", split.ID.String(),
					"kind", t.Kind,
					"from", t.To,
					"to", t.From,
					"amount", t.Amount,
					"error", rerr,
				)
				return errors.Join(err, rerr)
			}
		}
		return err
	}

	if len(journal) > 0 {
		e.metrics.ObserveTransfer(string(t.Kind), t.Asset, t.Amount)
	}
	return nil
}

func (e *Engine) observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = Reason(err)
	}
	e.metrics.ObserveOperation(operation, outcome)
}
