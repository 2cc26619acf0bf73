package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitvault/internal/access"
	"github.com/mmynk/splitvault/internal/ledger"
	"github.com/mmynk/splitvault/internal/settlement"
	"github.com/mmynk/splitvault/internal/storage"
	pb "github.com/mmynk/splitvault/pkg/api"
)

var errUnauthenticated = errors.New("caller identity required")

// codes maps domain errors to Connect codes; the first match wins.
var codes = []struct {
	err  error
	code connect.Code
}{
	{settlement.ErrInvalidLockTime, connect.CodeInvalidArgument},
	{settlement.ErrInvalidParticipantsCount, connect.CodeInvalidArgument},
	{settlement.ErrZeroSplitAmount, connect.CodeInvalidArgument},
	{settlement.ErrInvalidParticipant, connect.CodeInvalidArgument},
	{settlement.ErrAmountOutOfRange, connect.CodeInvalidArgument},
	{storage.ErrDuplicateIdentifier, connect.CodeAlreadyExists},
	{storage.ErrNotFound, connect.CodeNotFound},
	{storage.ErrParticipantNotFound, connect.CodeNotFound},
	{access.ErrAccessDenied, connect.CodePermissionDenied},
	{access.ErrOnlySplitBorrowers, connect.CodePermissionDenied},
	{access.ErrOnlySplitCreator, connect.CodePermissionDenied},
	{settlement.ErrStaleState, connect.CodeAborted},
	{ledger.ErrTransferFailed, connect.CodeFailedPrecondition},
	{settlement.ErrAgreementAlreadyApproved, connect.CodeFailedPrecondition},
	{settlement.ErrAgreementNotApproved, connect.CodeFailedPrecondition},
	{settlement.ErrAgreementHasZeroCollateral, connect.CodeFailedPrecondition},
	{settlement.ErrPenaltyAlreadyLevied, connect.CodeFailedPrecondition},
	{settlement.ErrCannotLevyPenaltyBeforeLockTime, connect.CodeFailedPrecondition},
	{settlement.ErrBorrowerAlreadyPaid, connect.CodeFailedPrecondition},
	{settlement.ErrOwedAmountNotPaid, connect.CodeFailedPrecondition},
	{settlement.ErrPenaltyLeviedByLender, connect.CodeFailedPrecondition},
	{settlement.ErrCollateralAlreadyWithdrawn, connect.CodeFailedPrecondition},
}

// toConnectError converts a domain error into a Connect error that carries
// the refusal name in the ReasonHeader metadata.
func toConnectError(err error) *connect.Error {
	code := connect.CodeInternal
	for _, c := range codes {
		if errors.Is(err, c.err) {
			code = c.code
			break
		}
	}
	connectErr := connect.NewError(code, err)
	connectErr.Meta().Set(pb.ReasonHeader, settlement.Reason(err))
	return connectErr
}

// invalidArgument reports a malformed request field.
func invalidArgument(err error) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	connectErr.Meta().Set(pb.ReasonHeader, "InvalidArgument")
	return connectErr
}
