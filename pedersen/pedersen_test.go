package pedersen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FairAds/bulletproof-gadgets/scalar"
)

func TestCommitThenOpenRoundTrips(t *testing.T) {
	g := DefaultGens()
	openings, err := CommitBytes(g, []byte("Peggy"))
	require.NoError(t, err)
	require.Len(t, openings, 1)

	ok := g.Open(openings[0].Commitment, &openings[0].Value, &openings[0].Blinding)
	require.True(t, ok)
}

func TestOpenRejectsWrongValue(t *testing.T) {
	g := DefaultGens()
	openings, err := CommitBytes(g, []byte{0x43})
	require.NoError(t, err)

	var wrong scalar.Element
	wrong.SetUint64(99)
	ok := g.Open(openings[0].Commitment, &wrong, &openings[0].Blinding)
	require.False(t, ok)
}

func TestCommitBytesChunksLongValues(t *testing.T) {
	g := DefaultGens()
	long := make([]byte, 40)
	for i := range long {
		long[i] = byte(i)
	}
	openings, err := CommitBytes(g, long)
	require.NoError(t, err)
	require.Len(t, openings, 2)
}

func TestDefaultGensAreDistinct(t *testing.T) {
	g := DefaultGens()
	require.False(t, g.B.Equal(&g.BBlinding))
}
