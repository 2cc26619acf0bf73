package api

import (
	"errors"
	"testing"

	"connectrpc.com/connect"
)

func TestCodec_UsesWireNames(t *testing.T) {
	var c Codec
	data, err := c.Marshal(&LevyPenaltyRequest{SplitId: "0x01", Participant: "0xalice"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got, want := string(data), `{"split_id":"0x01","participant":"0xalice"}`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	var req CreateSplitRequest
	if err := c.Unmarshal([]byte(`{"total_amount":"50","deadline":1700000000,"participants":[{"account":"0xa","owed_amount":"10"}]}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.TotalAmount != "50" || req.Deadline != 1700000000 || len(req.Participants) != 1 || req.Participants[0].CollateralAmount != "" {
		t.Errorf("Unmarshal = %+v", req)
	}
}

func TestReasonOf(t *testing.T) {
	connectErr := connect.NewError(connect.CodeFailedPrecondition, errors.New("penalty already levied"))
	connectErr.Meta().Set(ReasonHeader, "PenaltyAlreadyLevied")

	if got := ReasonOf(connectErr); got != "PenaltyAlreadyLevied" {
		t.Errorf("ReasonOf = %q, want PenaltyAlreadyLevied", got)
	}
	if got := ReasonOf(errors.New("plain")); got != "" {
		t.Errorf("ReasonOf(plain) = %q, want empty", got)
	}
}
