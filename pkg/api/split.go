package api

// Participant is one participant record of a split.
type Participant struct {
	Account             string `json:"account"`
	OwedAmount          string `json:"owed_amount"`
	CollateralAmount    string `json:"collateral_amount"`
	State               string `json:"state"`
	AgreementApproved   bool   `json:"agreement_approved"`
	PaymentApproved     bool   `json:"payment_approved"`
	PaidStatus          bool   `json:"paid_status"`
	PenaltyLevied       bool   `json:"penalty_levied"`
	CollateralWithdrawn bool   `json:"collateral_withdrawn"`
}

// Split is the full view of a split, readable by its creator.
type Split struct {
	Id                string         `json:"id"`
	Creator           string         `json:"creator"`
	Asset             string         `json:"asset"`
	TotalAmount       string         `json:"total_amount"`
	Deadline          int64          `json:"deadline"`
	Description       string         `json:"description"`
	Participants      []*Participant `json:"participants"`
	RemainingPayments int32          `json:"remaining_payments"`
	CreatedAt         int64          `json:"created_at"`
}

// ParticipantTerms are the terms of one participant at creation.
type ParticipantTerms struct {
	Account          string `json:"account"`
	OwedAmount       string `json:"owed_amount"`
	CollateralAmount string `json:"collateral_amount,omitempty"`
}

type CreateSplitRequest struct {
	// Asset defaults to the native asset when empty.
	Asset        string              `json:"asset,omitempty"`
	TotalAmount  string              `json:"total_amount"`
	Deadline     int64               `json:"deadline"`
	Description  string              `json:"description"`
	Participants []*ParticipantTerms `json:"participants"`
}

type CreateSplitResponse struct {
	SplitId string `json:"split_id"`
	Split   *Split `json:"split"`
}

type ApproveAgreementRequest struct {
	SplitId string `json:"split_id"`
}

type ApproveAgreementResponse struct {
	Participant *Participant `json:"participant"`
}

type ApprovePaymentRequest struct {
	SplitId string `json:"split_id"`
}

type ApprovePaymentResponse struct {
	Participant *Participant `json:"participant"`
}

type LevyPenaltyRequest struct {
	SplitId     string `json:"split_id"`
	Participant string `json:"participant"`
}

type LevyPenaltyResponse struct {
	Participant *Participant `json:"participant"`
}

type WithdrawCollateralRequest struct {
	SplitId string `json:"split_id"`
}

type WithdrawCollateralResponse struct {
	Participant *Participant `json:"participant"`
}

type GetMySplitsRequest struct {
	Offset int32 `json:"offset"`
	Limit  int32 `json:"limit"`
}

type GetMySplitsResponse struct {
	SplitIds []string `json:"split_ids"`
}

type GetSplitDataRequest struct {
	SplitId string `json:"split_id"`
}

type GetSplitDataResponse struct {
	Split *Split `json:"split"`
}

type GetSplitBorrowerDataRequest struct {
	SplitId string `json:"split_id"`
}

type GetSplitBorrowerDataResponse struct {
	Participant *Participant `json:"participant"`
}

type GetSplitBorrowerDataForCreatorRequest struct {
	SplitId     string `json:"split_id"`
	Participant string `json:"participant"`
}

type GetSplitBorrowerDataForCreatorResponse struct {
	Participant *Participant `json:"participant"`
}

// Transfer is one journal row.
type Transfer struct {
	Id          string `json:"id"`
	Kind        string `json:"kind"`
	Participant string `json:"participant"`
	From        string `json:"from"`
	To          string `json:"to"`
	Asset       string `json:"asset"`
	Amount      string `json:"amount"`
	CreatedAt   int64  `json:"created_at"`
}

// SplitSummary aggregates the participant records of a split.
type SplitSummary struct {
	Participants       int32  `json:"participants"`
	Unapproved         int32  `json:"unapproved"`
	Approved           int32  `json:"approved"`
	Paid               int32  `json:"paid"`
	Withdrawn          int32  `json:"withdrawn"`
	Penalized          int32  `json:"penalized"`
	TotalOwed          string `json:"total_owed"`
	Collected          string `json:"collected"`
	Outstanding        string `json:"outstanding"`
	CollateralHeld     string `json:"collateral_held"`
	CollateralSeized   string `json:"collateral_seized"`
	CollateralReturned string `json:"collateral_returned"`
	Settled            bool   `json:"settled"`
}

// AccountFlow is the net movement of one account within a split.
type AccountFlow struct {
	Account       string `json:"account"`
	NetBalance    string `json:"net_balance"`
	TotalSent     string `json:"total_sent"`
	TotalReceived string `json:"total_received"`
}

type GetSplitActivityRequest struct {
	SplitId string `json:"split_id"`
}

type GetSplitActivityResponse struct {
	Split     *Split         `json:"split"`
	Transfers []*Transfer    `json:"transfers"`
	Summary   *SplitSummary  `json:"summary"`
	Flows     []*AccountFlow `json:"flows"`
}

type GetBalanceRequest struct {
	Asset string `json:"asset,omitempty"`
}

type GetBalanceResponse struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}
