package settlement

import (
	"errors"

	"github.com/mmynk/splitvault/internal/access"
	"github.com/mmynk/splitvault/internal/ledger"
	"github.com/mmynk/splitvault/internal/storage"
)

// Creation errors.
var (
	ErrInvalidLockTime          = errors.New("deadline must be in the future")
	ErrInvalidParticipantsCount = errors.New("split needs at least one participant")
	ErrZeroSplitAmount          = errors.New("total split amount must be positive")
	ErrInvalidParticipant       = errors.New("invalid participant terms")
	ErrAmountOutOfRange         = errors.New("amount out of range")
)

// State conflict errors.
var (
	ErrAgreementAlreadyApproved        = errors.New("agreement already approved")
	ErrAgreementNotApproved            = errors.New("agreement not approved by borrower")
	ErrAgreementHasZeroCollateral      = errors.New("agreement has zero collateral")
	ErrPenaltyAlreadyLevied            = errors.New("penalty already levied")
	ErrCannotLevyPenaltyBeforeLockTime = errors.New("cannot levy penalty before lock time")
	ErrBorrowerAlreadyPaid             = errors.New("borrower already paid")
	ErrOwedAmountNotPaid               = errors.New("owed amount not paid")
	ErrPenaltyLeviedByLender           = errors.New("penalty levied by lender")
	ErrCollateralAlreadyWithdrawn      = errors.New("collateral already withdrawn")

	// ErrStaleState means the stored record moved on between the checks and
	// the write. The per-participant lock makes this unreachable within one
	// process; it guards against a second writer on the same database.
	ErrStaleState = errors.New("participant state changed concurrently")
)

// reasons maps each refusal to the name callers match on. Order matters
// where errors wrap each other.
var reasons = []struct {
	err  error
	name string
}{
	{ErrInvalidLockTime, "InvalidLockTime"},
	{ErrInvalidParticipantsCount, "InvalidParticipantsCount"},
	{ErrZeroSplitAmount, "ZeroSplitAmount"},
	{ErrInvalidParticipant, "InvalidParticipant"},
	{ErrAmountOutOfRange, "AmountOutOfRange"},
	{storage.ErrDuplicateIdentifier, "DuplicateIdentifier"},
	{storage.ErrNotFound, "NotFound"},
	{storage.ErrParticipantNotFound, "ParticipantNotFound"},
	{access.ErrAccessDenied, "AccessDenied"},
	{access.ErrOnlySplitBorrowers, "OnlySplitBorrowersCanPerformOperation"},
	{access.ErrOnlySplitCreator, "OnlySplitCreatorCanPerformOperation"},
	{ErrAgreementAlreadyApproved, "AgreementAlreadyApproved"},
	{ErrAgreementNotApproved, "AgreementNotApprovedByBorrower"},
	{ErrAgreementHasZeroCollateral, "AgreementHasZeroCollateral"},
	{ErrPenaltyAlreadyLevied, "PenaltyAlreadyLevied"},
	{ErrCannotLevyPenaltyBeforeLockTime, "CannotLevyPenaltyBeforeLockTime"},
	{ErrBorrowerAlreadyPaid, "BorrowerAlreadyPaid"},
	{ErrOwedAmountNotPaid, "OwedAmountNotPaid"},
	{ErrPenaltyLeviedByLender, "PenaltyLeviedByLender"},
	{ErrCollateralAlreadyWithdrawn, "CollateralAlreadyWithdrawed"},
	{ErrStaleState, "StaleState"},
	{ledger.ErrTransferFailed, "TransferFailed"},
}

// Reason returns the stable name of a refusal, or "Internal" for errors that
// are not a known refusal.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return "Internal"
}
