package settlement

import (
	"context"
	"fmt"

	"github.com/mmynk/splitvault/internal/access"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/storage"
)

// ApproveAgreement opts caller into the split, locking the collateral (if
// any) in the split's custody account.
func (e *Engine) ApproveAgreement(ctx context.Context, id models.SplitID, caller string) (err error) {
	defer func() { e.observe("approve_agreement", err) }()

	unlock := e.locks.Lock(participantKey(id, caller))
	defer unlock()

	split, err := e.store.GetSplit(ctx, id)
	if err != nil {
		return err
	}
	p, err := access.RequireParticipant(caller, split)
	if err != nil {
		return err
	}
	if p.AgreementApproved() {
		return ErrAgreementAlreadyApproved
	}

	err = e.apply(ctx, split, caller, p.State, models.StateApproved, models.Transfer{
		SplitID:     id,
		Kind:        models.TransferCollateralLock,
		Participant: caller,
		From:        caller,
		To:          models.CustodyAccount(id),
		Asset:       split.Asset,
		Amount:      p.CollateralAmount,
	})
	if err != nil {
		return err
	}

	e.logger.Info("Agreement approved", "split_id", id.String(), "participant", caller, "collateral", p.CollateralAmount)
	return nil
}

// ApprovePayment pays caller's owed amount to the creator.
func (e *Engine) ApprovePayment(ctx context.Context, id models.SplitID, caller string) (err error) {
	defer func() { e.observe("approve_payment", err) }()

	unlock := e.locks.Lock(participantKey(id, caller))
	defer unlock()

	split, err := e.store.GetSplit(ctx, id)
	if err != nil {
		return err
	}
	p, err := access.RequireParticipant(caller, split)
	if err != nil {
		return err
	}
	switch {
	case !p.AgreementApproved():
		return ErrAgreementNotApproved
	case p.PenaltyLevied():
		return ErrPenaltyLeviedByLender
	case p.PaidStatus():
		return ErrBorrowerAlreadyPaid
	}

	err = e.apply(ctx, split, caller, p.State, models.StatePaid, models.Transfer{
		SplitID:     id,
		Kind:        models.TransferPayment,
		Participant: caller,
		From:        caller,
		To:          split.Creator,
		Asset:       split.Asset,
		Amount:      p.OwedAmount,
	})
	if err != nil {
		return err
	}

	e.logger.Info("Payment approved", "split_id", id.String(), "participant", caller, "amount", p.OwedAmount)
	return nil
}

// LevyPenalty lets the creator seize the collateral of a participant who did
// not pay by the deadline.
func (e *Engine) LevyPenalty(ctx context.Context, id models.SplitID, caller, participant string) (err error) {
	defer func() { e.observe("levy_penalty", err) }()

	// Same key as the participant's own operations, so a levy never races
	// the participant's payment or withdrawal.
	unlock := e.locks.Lock(participantKey(id, participant))
	defer unlock()

	split, err := e.store.GetSplit(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireCreator(caller, split); err != nil {
		return err
	}
	if e.now().Before(split.Deadline) {
		return ErrCannotLevyPenaltyBeforeLockTime
	}
	p, ok := access.FindParticipant(participant, split)
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrParticipantNotFound, participant)
	}
	switch {
	case !p.AgreementApproved():
		return ErrAgreementNotApproved
	case !p.HasCollateral():
		return ErrAgreementHasZeroCollateral
	case p.PaidStatus():
		return ErrBorrowerAlreadyPaid
	case p.PenaltyLevied():
		return ErrPenaltyAlreadyLevied
	}

	err = e.apply(ctx, split, participant, p.State, models.StatePenalized, models.Transfer{
		SplitID:     id,
		Kind:        models.TransferPenalty,
		Participant: participant,
		From:        models.CustodyAccount(id),
		To:          split.Creator,
		Asset:       split.Asset,
		Amount:      p.CollateralAmount,
	})
	if err != nil {
		return err
	}

	e.logger.Info("Penalty levied", "split_id", id.String(), "participant", participant, "collateral", p.CollateralAmount)
	return nil
}

// WithdrawCollateral returns caller's collateral after the owed amount was paid.
func (e *Engine) WithdrawCollateral(ctx context.Context, id models.SplitID, caller string) (err error) {
	defer func() { e.observe("withdraw_collateral", err) }()

	unlock := e.locks.Lock(participantKey(id, caller))
	defer unlock()

	split, err := e.store.GetSplit(ctx, id)
	if err != nil {
		return err
	}
	p, err := access.RequireParticipant(caller, split)
	if err != nil {
		return err
	}
	// Penalty is reported ahead of a missing payment.
	switch {
	case !p.AgreementApproved():
		return ErrAgreementNotApproved
	case !p.HasCollateral():
		return ErrAgreementHasZeroCollateral
	case p.PenaltyLevied():
		return ErrPenaltyLeviedByLender
	case !p.PaidStatus():
		return ErrOwedAmountNotPaid
	case p.CollateralWithdrawn():
		return ErrCollateralAlreadyWithdrawn
	}

	err = e.apply(ctx, split, caller, p.State, models.StateWithdrawn, models.Transfer{
		SplitID:     id,
		Kind:        models.TransferCollateralReturn,
		Participant: caller,
		From:        models.CustodyAccount(id),
		To:          caller,
		Asset:       split.Asset,
		Amount:      p.CollateralAmount,
	})
	if err != nil {
		return err
	}

	e.logger.Info("Collateral withdrawn", "split_id", id.String(), "participant", caller, "collateral", p.CollateralAmount)
	return nil
}
