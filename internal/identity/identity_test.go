package identity

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var hexID = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

func TestDerive(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := Derive("0xcreator", "Split 1", 0)
		b := Derive("0xcreator", "Split 1", 0)
		require.Equal(t, a, b)
		require.Regexp(t, hexID, a.String())
	})

	t.Run("each input changes the id", func(t *testing.T) {
		base := Derive("0xcreator", "Split 1", 0)
		require.NotEqual(t, base, Derive("0xother", "Split 1", 0))
		require.NotEqual(t, base, Derive("0xcreator", "Split 2", 0))
		require.NotEqual(t, base, Derive("0xcreator", "Split 1", 1))
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		require.NotEqual(t, Derive("ab", "c", 0), Derive("a", "bc", 0))
	})
}

func TestNewAddress(t *testing.T) {
	addr := NewAddress()
	require.Regexp(t, `^0x[0-9a-f]{40}$`, addr)
	require.NotEqual(t, addr, NewAddress())
}
