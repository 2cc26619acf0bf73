package api

import (
	"encoding/json"
	"errors"

	"connectrpc.com/connect"
)

// ReasonHeader carries the stable refusal name on every error response.
const ReasonHeader = "Split-Error-Reason"

// Codec encodes messages with encoding/json. It registers as "json" so it
// takes over application/json from Connect's protobuf JSON codec, which only
// accepts generated messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// ReasonOf returns the refusal name attached to an RPC error, or "" when
// err carries none.
func ReasonOf(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(ReasonHeader)
}
