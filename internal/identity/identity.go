// Package identity derives split identifiers and account addresses.
package identity

import (
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/mmynk/splitvault/internal/models"
)

// Field numbers of the identifier preimage. Each input is tagged and length
// prefixed, so ("ab", "c") and ("a", "bc") never share a preimage.
const (
	fieldCreator     protowire.Number = 1
	fieldDescription protowire.Number = 2
	fieldNonce       protowire.Number = 3
)

// Derive computes the identifier of the split a creator posts with the given
// description as its nonce-th split. The result is deterministic.
func Derive(creator, description string, nonce uint64) models.SplitID {
	var id models.SplitID
	h := sha3.NewLegacyKeccak256()
	h.Write(preimage(creator, description, nonce))
	h.Sum(id[:0])
	return id
}

func preimage(creator, description string, nonce uint64) []byte {
	b := make([]byte, 0, len(creator)+len(description)+24)
	b = protowire.AppendTag(b, fieldCreator, protowire.BytesType)
	b = protowire.AppendString(b, creator)
	b = protowire.AppendTag(b, fieldDescription, protowire.BytesType)
	b = protowire.AppendString(b, description)
	b = protowire.AppendTag(b, fieldNonce, protowire.VarintType)
	b = protowire.AppendVarint(b, nonce)
	return b
}

// NewAddress returns a fresh account address: the last 20 bytes of the
// Keccak-256 digest of a random UUID, hex encoded with a 0x prefix.
func NewAddress() string {
	seed := uuid.New()
	h := sha3.NewLegacyKeccak256()
	h.Write(seed[:])
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}
