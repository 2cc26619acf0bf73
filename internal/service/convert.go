package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitvault/internal/calculator"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/settlement"
	pb "github.com/mmynk/splitvault/pkg/api"
)

// parseAmount parses a decimal string; an empty string is zero.
func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	if err := settlement.CheckAmount(d); err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseSplitID(s string) (models.SplitID, error) {
	id, err := models.ParseSplitID(s)
	if err != nil {
		return models.SplitID{}, fmt.Errorf("invalid split_id: %w", err)
	}
	return id, nil
}

func toCreateParams(req *pb.CreateSplitRequest) (settlement.CreateSplitParams, error) {
	total, err := parseAmount("total_amount", req.TotalAmount)
	if err != nil {
		return settlement.CreateSplitParams{}, err
	}
	params := settlement.CreateSplitParams{
		Asset:        req.Asset,
		TotalAmount:  total,
		Deadline:     time.Unix(req.Deadline, 0),
		Description:  req.Description,
		Participants: make([]settlement.ParticipantTerms, 0, len(req.Participants)),
	}
	for _, p := range req.Participants {
		if p == nil {
			continue
		}
		owed, err := parseAmount("owed_amount", p.OwedAmount)
		if err != nil {
			return settlement.CreateSplitParams{}, err
		}
		collateral, err := parseAmount("collateral_amount", p.CollateralAmount)
		if err != nil {
			return settlement.CreateSplitParams{}, err
		}
		params.Participants = append(params.Participants, settlement.ParticipantTerms{
			Account:          p.Account,
			OwedAmount:       owed,
			CollateralAmount: collateral,
		})
	}
	return params, nil
}

func toPBParticipant(p models.Participant) *pb.Participant {
	return &pb.Participant{
		Account:             p.Account,
		OwedAmount:          p.OwedAmount.String(),
		CollateralAmount:    p.CollateralAmount.String(),
		State:               p.State.String(),
		AgreementApproved:   p.AgreementApproved(),
		PaymentApproved:     p.PaymentApproved(),
		PaidStatus:          p.PaidStatus(),
		PenaltyLevied:       p.PenaltyLevied(),
		CollateralWithdrawn: p.CollateralWithdrawn(),
	}
}

func toPBSplit(s *models.Split) *pb.Split {
	out := &pb.Split{
		Id:                s.ID.String(),
		Creator:           s.Creator,
		Asset:             s.Asset,
		TotalAmount:       s.TotalAmount.String(),
		Deadline:          s.Deadline.Unix(),
		Description:       s.Description,
		Participants:      make([]*pb.Participant, len(s.Participants)),
		RemainingPayments: int32(s.RemainingPayments),
		CreatedAt:         s.CreatedAt,
	}
	for i, p := range s.Participants {
		out.Participants[i] = toPBParticipant(p)
	}
	return out
}

func toPBTransfer(t models.Transfer) *pb.Transfer {
	return &pb.Transfer{
		Id:          t.ID,
		Kind:        string(t.Kind),
		Participant: t.Participant,
		From:        t.From,
		To:          t.To,
		Asset:       t.Asset,
		Amount:      t.Amount.String(),
		CreatedAt:   t.CreatedAt,
	}
}

func toPBSummary(s calculator.Summary) *pb.SplitSummary {
	return &pb.SplitSummary{
		Participants:       int32(s.Participants),
		Unapproved:         int32(s.Unapproved),
		Approved:           int32(s.Approved),
		Paid:               int32(s.Paid),
		Withdrawn:          int32(s.Withdrawn),
		Penalized:          int32(s.Penalized),
		TotalOwed:          s.TotalOwed.String(),
		Collected:          s.Collected.String(),
		Outstanding:        s.Outstanding.String(),
		CollateralHeld:     s.CollateralHeld.String(),
		CollateralSeized:   s.CollateralSeized.String(),
		CollateralReturned: s.CollateralReturned.String(),
		Settled:            s.Settled(),
	}
}

func toPBFlow(f calculator.AccountFlow) *pb.AccountFlow {
	return &pb.AccountFlow{
		Account:       f.Account,
		NetBalance:    f.NetBalance.String(),
		TotalSent:     f.TotalSent.String(),
		TotalReceived: f.TotalReceived.String(),
	}
}

func toPBAccount(a *models.Account) *pb.Account {
	return &pb.Account{
		Address:     a.Address,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		CreatedAt:   a.CreatedAt,
	}
}
