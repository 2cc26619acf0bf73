package models

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NativeAsset is the asset reference for the environment's native currency.
const NativeAsset = "native"

// SplitID is the 32-byte identifier of a split.
type SplitID [32]byte

// String renders the id as 0x followed by 64 lowercase hex characters.
func (id SplitID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// IsZero reports whether the id is unset.
func (id SplitID) IsZero() bool {
	return id == SplitID{}
}

// ParseSplitID parses the output of SplitID.String. The 0x prefix is optional.
func ParseSplitID(s string) (SplitID, error) {
	var id SplitID
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != hex.EncodedLen(len(id)) {
		return id, fmt.Errorf("invalid split id %q: want %d hex characters", s, hex.EncodedLen(len(id)))
	}
	if _, err := hex.Decode(id[:], []byte(raw)); err != nil {
		return id, fmt.Errorf("invalid split id %q: %w", s, err)
	}
	return id, nil
}

// CustodyAccount returns the ledger account holding a split's collateral.
func CustodyAccount(id SplitID) string {
	return "custody:" + id.String()
}

// Split is one creator-initiated obligation with fixed participants, amounts
// and deadline. It is never deleted; only participant states change after
// creation.
type Split struct {
	// ID is derived from the creator, description and creator nonce.
	ID SplitID

	// Creator is the address of the account that posted the split.
	Creator string

	// Asset is the asset reference used for owed amounts and collateral.
	Asset string

	// TotalAmount is the stated total, fixed at creation. It is informational
	// and not required to equal the sum of owed amounts.
	TotalAmount decimal.Decimal

	// Deadline is the lock time after which the creator may levy penalties.
	Deadline time.Time

	// Description is free-form text; it need not be unique.
	Description string

	// Participants is ordered as supplied at creation.
	Participants []Participant

	// RemainingPayments starts at len(Participants) and decreases with each payment.
	RemainingPayments int

	// Nonce is the creator's sequence number used to derive ID.
	Nonce uint64

	// CreatedAt is the Unix timestamp when the split was created.
	CreatedAt int64
}

// Participant returns the record for account, if account participates.
func (s *Split) Participant(account string) (*Participant, bool) {
	for i := range s.Participants {
		if s.Participants[i].Account == account {
			return &s.Participants[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so callers can hand out snapshots.
func (s *Split) Clone() *Split {
	c := *s
	c.Participants = append([]Participant(nil), s.Participants...)
	return &c
}

// Participant is one participant's record within a split.
type Participant struct {
	Account          string
	OwedAmount       decimal.Decimal
	CollateralAmount decimal.Decimal
	State            ParticipantState
}

// HasCollateral reports whether the participant must lock a deposit.
func (p Participant) HasCollateral() bool {
	return p.CollateralAmount.IsPositive()
}

// AgreementApproved reports whether the participant opted in.
func (p Participant) AgreementApproved() bool {
	return p.State != StateUnapproved
}

// PaymentApproved reports whether the participant approved the payment.
// Payment is approved and settled in one step, so it tracks PaidStatus.
func (p Participant) PaymentApproved() bool {
	return p.PaidStatus()
}

// PaidStatus reports whether the owed amount reached the creator.
func (p Participant) PaidStatus() bool {
	return p.State == StatePaid || p.State == StateWithdrawn
}

// PenaltyLevied reports whether the creator seized the collateral.
func (p Participant) PenaltyLevied() bool {
	return p.State == StatePenalized
}

// CollateralWithdrawn reports whether the collateral went back to the participant.
func (p Participant) CollateralWithdrawn() bool {
	return p.State == StateWithdrawn
}
