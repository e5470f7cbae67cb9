package scalar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Literal fixtures from original_source/src/conversions.rs and
// original_source/src/bin/mimc_hash.rs — reused verbatim so this port
// can be checked against the reference corpus's own expectations.
const (
	hex8  = "5065676779"                           // "Peggy"
	hex9  = "50726f766572736f6e"                   // "Proverson"
	hex10 = "012fcfd4"                              // 19910612
	hex11 = "54696d62756b7475"                      // "Timbuktu"
	hex12 = "01337894"                              // 20150420
	hex13 = "0134ff33"                              // 20250419
	hex14 = "50617373706f7274204f6666696365205a7572696368" // "Passport Office Zurich"
	hex15 = "82440e"                                // 8537102
)

func TestStrHexEncode(t *testing.T) {
	require.Equal(t, hex8, StrHexEncode("Peggy"))
	require.Equal(t, hex9, StrHexEncode("Proverson"))
	require.Equal(t, hex11, StrHexEncode("Timbuktu"))
	require.Equal(t, hex14, StrHexEncode("Passport Office Zurich"))
}

func TestNumHexEncode(t *testing.T) {
	require.Equal(t, hex10, NumHexEncode(19910612))
	require.Equal(t, hex12, NumHexEncode(20150420))
	require.Equal(t, hex13, NumHexEncode(20250419))
	require.Equal(t, hex15, NumHexEncode(8537102))
}

func TestHexToBytesRoundTrip(t *testing.T) {
	for _, h := range []string{hex8, hex9, hex10, hex11, hex12, hex13, hex14, hex15} {
		b, err := HexToBytes(h)
		require.NoError(t, err)
		require.Equal(t, h, BytesToHex(b))
	}
}

func TestHexToBytesOddLength(t *testing.T) {
	b, err := HexToBytes("4")
	require.NoError(t, err)
	require.Equal(t, []byte{0x04}, b)
}

func TestBEToScalarRoundTrip(t *testing.T) {
	b := []byte{
		0x06, 0xb1, 0x31, 0x55, 0x4e, 0x4e, 0x50, 0xb5,
		0x2e, 0x09, 0x69, 0x71, 0x53, 0x34, 0x11, 0xc7,
		0x62, 0x35, 0x04, 0xf6, 0xa5, 0x6e, 0xdf, 0x1b,
		0xcc, 0xdc, 0x81, 0x06, 0x72, 0xef, 0xdd, 0x22,
	}
	s, err := BEToScalar(b)
	require.NoError(t, err)
	require.Equal(t, b, ScalarToBE(&s))
}

func TestBEToScalarRejectsOversize(t *testing.T) {
	_, err := BEToScalar(make([]byte, Size+1))
	require.ErrorIs(t, err, ErrSize)
}

func TestBEToScalarsChunking(t *testing.T) {
	// a single byte pads out to exactly one block
	ss, err := BEToScalars([]byte{0x43})
	require.NoError(t, err)
	require.Len(t, ss, 1)
	require.Equal(t, byte(0x43), ScalarToBE(&ss[0])[Size-1])

	// 40 bytes spans two 32-byte blocks
	long := make([]byte, 40)
	for i := range long {
		long[i] = byte(i + 1)
	}
	ss, err = BEToScalars(long)
	require.NoError(t, err)
	require.Len(t, ss, 2)
	require.Equal(t, long, ScalarsToBE(ss)[Size*2-40:])
}
