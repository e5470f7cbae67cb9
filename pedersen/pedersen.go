// Package pedersen implements the commitment helper (component B): it
// Pedersen-commits byte values as one or more 32-byte scalar blocks and
// hands back their openings; the constraint-system variable handles the
// rest of the module names by C<i>-<k> are allocated by package r1cs.
//
// Grounded on parsdao-pars/zk/pedersen.go's PedersenCommitter shape
// (G/H generator pair over bn254, hash-to-curve derivation of H), but
// uses gnark-crypto's native G1Affine.Bytes()/SetBytes() compressed
// point encoding rather than that file's lossy hash-cache compression.
package pedersen

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Point is a Pedersen commitment: an affine G1 point, whose compressed
// Bytes() encoding is 32 bytes.
type Point = bn254.G1Affine

// Gens holds the pair of generators used by every commitment in a
// call: B (the value generator) and BBlinding (the hiding generator),
// analogous to bulletproofs::PedersenGens.
type Gens struct {
	B         Point
	BBlinding Point
}

// DefaultGens returns the module-wide nothing-up-my-sleeve generator
// pair: B is the bn254 G1 generator, BBlinding is derived from it by
// hashing a fixed domain string to a curve point.
func DefaultGens() Gens {
	_, _, g1, _ := bn254.Generators()
	return Gens{
		B:         g1,
		BBlinding: hashToG1("bulletproof-gadgets.BBlinding"),
	}
}

// Commit computes value*B + blinding*BBlinding.
func (g Gens) Commit(value, blinding *scalar.Element) Point {
	var vG, rH Point
	vBig := value.BigInt(new(big.Int))
	rBig := blinding.BigInt(new(big.Int))
	vG.ScalarMultiplication(&g.B, vBig)
	rH.ScalarMultiplication(&g.BBlinding, rBig)
	var out Point
	out.Add(&vG, &rH)
	return out
}

// Open verifies that commitment == value*B + blinding*BBlinding.
func (g Gens) Open(commitment Point, value, blinding *scalar.Element) bool {
	expected := g.Commit(value, blinding)
	return commitment.Equal(&expected)
}

// Opening is the prover-side result of committing one 32-byte block:
// the scalar value, its blinding factor, and the resulting point.
type Opening struct {
	Value     scalar.Element
	Blinding  scalar.Element
	Commitment Point
}

// CommitBytes splits raw into 32-byte big-endian scalar blocks (via
// scalar.BEToScalars) and Pedersen-commits each block under a freshly
// drawn blinding factor. It returns one Opening per block, in block
// order, matching the C<i>-<k> naming the registry assigns to them.
func CommitBytes(g Gens, raw []byte) ([]Opening, error) {
	blocks, err := scalar.BEToScalars(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: committing value: %v", xerrors.Size, err)
	}
	out := make([]Opening, len(blocks))
	for i := range blocks {
		var blinding scalar.Element
		if _, err := blinding.SetRandom(); err != nil {
			return nil, fmt.Errorf("drawing blinding factor: %w", err)
		}
		out[i] = Opening{
			Value:      blocks[i],
			Blinding:   blinding,
			Commitment: g.Commit(&blocks[i], &blinding),
		}
	}
	return out, nil
}

// hashToG1 maps an arbitrary domain-separation string to a bn254 G1
// point via try-and-increment: hash the seed and a counter with
// SHA-256, treat the digest as a candidate x-coordinate, and accept
// the first counter value for which y^2 = x^3 + 3 has a square root.
func hashToG1(seed string) Point {
	seedBytes := []byte(seed)
	for counter := byte(0); ; counter++ {
		data := append(append([]byte{}, seedBytes...), counter)
		digest := sha256.Sum256(data)

		var x fp.Element
		x.SetBytes(digest[:])

		var x2, x3, rhs fp.Element
		x2.Square(&x)
		x3.Mul(&x2, &x)
		rhs.Add(&x3, curveB())

		var y fp.Element
		if y.Legendre(&rhs) != 1 {
			continue
		}
		y.Sqrt(&rhs)

		p := Point{X: x, Y: y}
		if !p.IsOnCurve() {
			continue
		}
		return p
	}
}

// curveB returns bn254's short-Weierstrass constant b = 3.
func curveB() *fp.Element {
	var b fp.Element
	b.SetUint64(3)
	return &b
}
