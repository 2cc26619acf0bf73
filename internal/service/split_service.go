package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitvault/internal/middleware"
	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/query"
	"github.com/mmynk/splitvault/internal/settlement"
	pb "github.com/mmynk/splitvault/pkg/api"
	"github.com/mmynk/splitvault/pkg/api/apiconnect"
)

var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// SplitService implements the Connect SplitService
type SplitService struct {
	engine  *settlement.Engine
	queries *query.Service
	logger  *slog.Logger
}

// NewSplitService creates a new SplitService over the settlement engine and
// the read side.
func NewSplitService(engine *settlement.Engine, queries *query.Service, logger *slog.Logger) *SplitService {
	return &SplitService{engine: engine, queries: queries, logger: logger}
}

// caller returns the authenticated caller address.
func caller(ctx context.Context) (string, error) {
	c := middleware.GetCaller(ctx)
	if c == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	return c, nil
}

// CreateSplit posts a new split with the caller as creator.
func (s *SplitService) CreateSplit(ctx context.Context, req *connect.Request[pb.CreateSplitRequest]) (*connect.Response[pb.CreateSplitResponse], error) {
	creator, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	params, err := toCreateParams(req.Msg)
	if err != nil {
		return nil, invalidArgument(err)
	}

	split, err := s.engine.CreateSplit(ctx, creator, params)
	if err != nil {
		s.logger.Warn("CreateSplit refused", "creator", creator, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&pb.CreateSplitResponse{
		SplitId: split.ID.String(),
		Split:   toPBSplit(split),
	}), nil
}

// ApproveAgreement opts the caller into a split.
func (s *SplitService) ApproveAgreement(ctx context.Context, req *connect.Request[pb.ApproveAgreementRequest]) (*connect.Response[pb.ApproveAgreementResponse], error) {
	participant, err := s.participantOp(ctx, req.Msg.SplitId, s.engine.ApproveAgreement)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&pb.ApproveAgreementResponse{Participant: participant}), nil
}

// ApprovePayment pays the caller's owed amount to the creator.
func (s *SplitService) ApprovePayment(ctx context.Context, req *connect.Request[pb.ApprovePaymentRequest]) (*connect.Response[pb.ApprovePaymentResponse], error) {
	participant, err := s.participantOp(ctx, req.Msg.SplitId, s.engine.ApprovePayment)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&pb.ApprovePaymentResponse{Participant: participant}), nil
}

// WithdrawCollateral returns the caller's collateral.
func (s *SplitService) WithdrawCollateral(ctx context.Context, req *connect.Request[pb.WithdrawCollateralRequest]) (*connect.Response[pb.WithdrawCollateralResponse], error) {
	participant, err := s.participantOp(ctx, req.Msg.SplitId, s.engine.WithdrawCollateral)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&pb.WithdrawCollateralResponse{Participant: participant}), nil
}

// participantOp runs one of the caller's own transitions and returns the
// caller's updated record.
func (s *SplitService) participantOp(ctx context.Context, rawID string, op func(context.Context, models.SplitID, string) error) (*pb.Participant, error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseSplitID(rawID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	if err := op(ctx, id, account); err != nil {
		return nil, toConnectError(err)
	}

	p, err := s.queries.GetSplitBorrowerData(ctx, id, account)
	if err != nil {
		return nil, toConnectError(err)
	}
	return toPBParticipant(p), nil
}

// LevyPenalty seizes a participant's collateral on behalf of the creator.
func (s *SplitService) LevyPenalty(ctx context.Context, req *connect.Request[pb.LevyPenaltyRequest]) (*connect.Response[pb.LevyPenaltyResponse], error) {
	creator, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseSplitID(req.Msg.SplitId)
	if err != nil {
		return nil, invalidArgument(err)
	}

	if err := s.engine.LevyPenalty(ctx, id, creator, req.Msg.Participant); err != nil {
		return nil, toConnectError(err)
	}

	p, err := s.queries.GetSplitBorrowerDataForCreator(ctx, id, creator, req.Msg.Participant)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.LevyPenaltyResponse{Participant: toPBParticipant(p)}), nil
}

// GetMySplits lists the splits the caller created or participates in.
func (s *SplitService) GetMySplits(ctx context.Context, req *connect.Request[pb.GetMySplitsRequest]) (*connect.Response[pb.GetMySplitsResponse], error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.queries.GetMySplits(ctx, account, int(req.Msg.Offset), int(req.Msg.Limit))
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &pb.GetMySplitsResponse{SplitIds: make([]string, len(ids))}
	for i, id := range ids {
		resp.SplitIds[i] = id.String()
	}
	return connect.NewResponse(resp), nil
}

// GetSplitData returns the full split to its creator.
func (s *SplitService) GetSplitData(ctx context.Context, req *connect.Request[pb.GetSplitDataRequest]) (*connect.Response[pb.GetSplitDataResponse], error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseSplitID(req.Msg.SplitId)
	if err != nil {
		return nil, invalidArgument(err)
	}

	split, err := s.queries.GetSplitData(ctx, id, account)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.GetSplitDataResponse{Split: toPBSplit(split)}), nil
}

// GetSplitBorrowerData returns the caller's own participant record.
func (s *SplitService) GetSplitBorrowerData(ctx context.Context, req *connect.Request[pb.GetSplitBorrowerDataRequest]) (*connect.Response[pb.GetSplitBorrowerDataResponse], error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseSplitID(req.Msg.SplitId)
	if err != nil {
		return nil, invalidArgument(err)
	}

	p, err := s.queries.GetSplitBorrowerData(ctx, id, account)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.GetSplitBorrowerDataResponse{Participant: toPBParticipant(p)}), nil
}

// GetSplitBorrowerDataForCreator returns a participant's record to the creator.
func (s *SplitService) GetSplitBorrowerDataForCreator(ctx context.Context, req *connect.Request[pb.GetSplitBorrowerDataForCreatorRequest]) (*connect.Response[pb.GetSplitBorrowerDataForCreatorResponse], error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseSplitID(req.Msg.SplitId)
	if err != nil {
		return nil, invalidArgument(err)
	}

	p, err := s.queries.GetSplitBorrowerDataForCreator(ctx, id, account, req.Msg.Participant)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.GetSplitBorrowerDataForCreatorResponse{Participant: toPBParticipant(p)}), nil
}

// GetSplitActivity returns the journal and aggregates of a split to its creator.
func (s *SplitService) GetSplitActivity(ctx context.Context, req *connect.Request[pb.GetSplitActivityRequest]) (*connect.Response[pb.GetSplitActivityResponse], error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseSplitID(req.Msg.SplitId)
	if err != nil {
		return nil, invalidArgument(err)
	}

	activity, err := s.queries.GetSplitActivity(ctx, id, account)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &pb.GetSplitActivityResponse{
		Split:     toPBSplit(activity.Split),
		Transfers: make([]*pb.Transfer, len(activity.Transfers)),
		Summary:   toPBSummary(activity.Summary),
		Flows:     make([]*pb.AccountFlow, len(activity.Flows)),
	}
	for i, t := range activity.Transfers {
		resp.Transfers[i] = toPBTransfer(t)
	}
	for i, f := range activity.Flows {
		resp.Flows[i] = toPBFlow(f)
	}
	return connect.NewResponse(resp), nil
}

// GetBalance returns the caller's balance in an asset.
func (s *SplitService) GetBalance(ctx context.Context, req *connect.Request[pb.GetBalanceRequest]) (*connect.Response[pb.GetBalanceResponse], error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	asset := req.Msg.Asset
	if asset == "" {
		asset = models.NativeAsset
	}

	balance, err := s.queries.GetBalance(ctx, account, asset)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.GetBalanceResponse{
		Account: account,
		Asset:   asset,
		Balance: balance.String(),
	}), nil
}
