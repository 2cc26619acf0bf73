// Package query serves the read side: paginated involvement lists and
// access-checked split, participant and activity views. Queries never lock;
// every result is a copy of the stored snapshot.
package query

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitvault/internal/access"
	"github.com/mmynk/splitvault/internal/calculator"
	"github.com/mmynk/splitvault/internal/ledger"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/storage"
)

// Service answers read requests.
type Service struct {
	store  storage.Store
	ledger ledger.Ledger
}

// New creates a query Service.
func New(store storage.Store, l ledger.Ledger) *Service {
	return &Service{store: store, ledger: l}
}

// Activity is a creator's view of what happened in a split.
type Activity struct {
	Split     *models.Split
	Transfers []models.Transfer
	Summary   calculator.Summary
	Flows     []calculator.AccountFlow
}

// GetMySplits returns a page of the splits caller created or participates in.
func (s *Service) GetMySplits(ctx context.Context, caller string, offset, limit int) ([]models.SplitID, error) {
	return s.store.ListSplitIDs(ctx, caller, offset, limit)
}

// GetSplitData returns the full split. Only the creator may read it.
func (s *Service) GetSplitData(ctx context.Context, id models.SplitID, caller string) (*models.Split, error) {
	split, err := s.store.GetSplit(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanReadSplit(caller, split); err != nil {
		return nil, err
	}
	return split, nil
}

// GetSplitBorrowerData returns caller's own participant record.
func (s *Service) GetSplitBorrowerData(ctx context.Context, id models.SplitID, caller string) (models.Participant, error) {
	split, err := s.store.GetSplit(ctx, id)
	if err != nil {
		return models.Participant{}, err
	}
	p, err := access.RequireParticipant(caller, split)
	if err != nil {
		return models.Participant{}, err
	}
	return *p, nil
}

// GetSplitBorrowerDataForCreator returns the named participant's record to the creator.
func (s *Service) GetSplitBorrowerDataForCreator(ctx context.Context, id models.SplitID, caller, participant string) (models.Participant, error) {
	split, err := s.store.GetSplit(ctx, id)
	if err != nil {
		return models.Participant{}, err
	}
	if err := access.RequireCreator(caller, split); err != nil {
		return models.Participant{}, err
	}
	p, ok := access.FindParticipant(participant, split)
	if !ok {
		return models.Participant{}, fmt.Errorf("%w: %s", storage.ErrParticipantNotFound, participant)
	}
	return *p, nil
}

// GetSplitActivity returns the journal and aggregates of a split to its creator.
func (s *Service) GetSplitActivity(ctx context.Context, id models.SplitID, caller string) (*Activity, error) {
	split, err := s.GetSplitData(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	transfers, err := s.store.ListTransfers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Activity{
		Split:     split,
		Transfers: transfers,
		Summary:   calculator.Summarize(split),
		Flows:     calculator.CalculateFlows(transfers),
	}, nil
}

// GetBalance returns caller's balance in asset.
func (s *Service) GetBalance(ctx context.Context, caller, asset string) (decimal.Decimal, error) {
	if asset == "" {
		asset = models.NativeAsset
	}
	return s.ledger.BalanceOf(ctx, caller, asset)
}
