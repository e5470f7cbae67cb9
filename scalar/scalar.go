// Package scalar implements the byte/hex/field conversions that every
// other package in bulletproof-gadgets builds on: big-endian bytes to
// scalars and back, scalar to hex, and the integer/string hex helpers
// the statement grammar and test fixtures use.
package scalar

import (
	"encoding/hex"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
)

// ErrSize and ErrParse are re-exported here so callers of this package
// don't need to import internal/xerrors directly.
var (
	ErrSize  = xerrors.Size
	ErrParse = xerrors.Parse
)

// Element is the scalar type used throughout the module: a residue in
// the bn254 scalar field, the field the Pedersen and MiMC machinery in
// this module operate over.
type Element = fr.Element

// Size is the width in bytes of a single scalar block.
const Size = fr.Bytes

// BEToScalar left-pads the big-endian value b with zeros to 32 bytes
// and interprets it as a canonical field element. It rejects inputs
// wider than one block and values at or above the field modulus.
func BEToScalar(b []byte) (Element, error) {
	if len(b) > Size {
		return Element{}, fmt.Errorf("%w: value is %d bytes, expected at most %d", ErrSize, len(b), Size)
	}
	var rev [Size]byte
	// right-align b (big-endian value) into a 32-byte buffer, then let
	// fr.Element.SetBytes interpret it as big-endian canonical.
	copy(rev[Size-len(b):], b)
	var e Element
	e.SetBytes(rev[:])
	if e.Bytes() != rev {
		return Element{}, fmt.Errorf("%w: value is not a canonical field element", ErrParse)
	}
	return e, nil
}

// BEToScalars splits b into 32-byte big-endian blocks, left-padding the
// total length up to a multiple of 32 first, producing one scalar per
// block in block order (most-significant block first).
func BEToScalars(b []byte) ([]Element, error) {
	n := len(b)
	blocks := (n + Size - 1) / Size
	if blocks == 0 {
		blocks = 1
	}
	padded := make([]byte, blocks*Size)
	copy(padded[blocks*Size-n:], b)

	out := make([]Element, blocks)
	for i := 0; i < blocks; i++ {
		chunk := padded[i*Size : (i+1)*Size]
		var e Element
		e.SetBytes(chunk)
		out[i] = e
	}
	return out, nil
}

// ScalarToBE serializes s as 32 big-endian bytes.
func ScalarToBE(s *Element) []byte {
	b := s.Bytes()
	out := make([]byte, Size)
	copy(out, b[:])
	return out
}

// ScalarsToBE concatenates the big-endian serialization of each scalar,
// in order. It is the left inverse of BEToScalars up to the zero
// padding BEToScalars introduces.
func ScalarsToBE(ss []Element) []byte {
	out := make([]byte, 0, len(ss)*Size)
	for i := range ss {
		out = append(out, ScalarToBE(&ss[i])...)
	}
	return out
}

// BytesToHex renders b as lowercase hex, no "0x" prefix.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBytes parses lowercase or uppercase hex (no "0x" prefix) back to
// bytes, padding with a leading zero nibble if the string has odd
// length (mirroring NumHexEncode/StrHexEncode's minimal-encoding rule).
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex %q: %v", ErrParse, s, err)
	}
	return b, nil
}

// ScalarToHex renders a scalar's big-endian serialization as hex.
func ScalarToHex(s *Element) string {
	return BytesToHex(ScalarToBE(s))
}

// StrHexEncode UTF8-encodes s and hex-encodes the bytes.
func StrHexEncode(s string) string {
	return BytesToHex([]byte(s))
}

// NumHexEncode renders a non-negative integer as minimal big-endian hex,
// padding one leading zero nibble if the natural encoding has odd
// length, matching the original `num_hex_encode`.
func NumHexEncode(n uint64) string {
	if n == 0 {
		return "00"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte(n & 0xff)}, buf...)
		n >>= 8
	}
	s := BytesToHex(buf)
	if len(s)%2 != 0 {
		s = "0" + s
	}
	return s
}
