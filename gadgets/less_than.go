package gadgets

import (
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// DefaultLessThanBits is the bit-width the LessThan gadget's range
// proof covers: wide enough for any value the script's 32-byte witness
// blocks realistically carry while leaving comfortable headroom below
// the scalar field's bit length, so right-left-1 never wraps for a
// satisfying witness.
const DefaultLessThanBits = 64

// LessThan asserts left < right on two one-block witnesses: it
// constrains right-left to lie in (0, 2^bits) by bounds-checking
// right-left-1 against [0, 2^bits), and separately forces right-left
// to be nonzero via a delta/delta_inv pair (the same strict-positivity
// trick Inequality uses for a single indicator).
type LessThan struct {
	bits int
}

// NewLessThan builds a LessThan gadget with the given range-proof
// bit-width.
func NewLessThan(bits int) *LessThan {
	if bits <= 0 {
		bits = DefaultLessThanBits
	}
	return &LessThan{bits: bits}
}

// Preprocess derives delta = right-left, its inverse, and the bit
// decomposition of delta-1.
func (g *LessThan) Preprocess(witnesses []scalar.Element) []scalar.Element {
	left, right := witnesses[0], witnesses[1]
	var delta scalar.Element
	delta.Sub(&right, &left)

	var deltaInv scalar.Element
	if !delta.IsZero() {
		deltaInv.Inverse(&delta)
	}

	one := scalar.Element{}
	one.SetOne()
	var deltaMinus1 scalar.Element
	deltaMinus1.Sub(&delta, &one)

	bits := decomposeBits(deltaMinus1, g.bits)
	out := make([]scalar.Element, 0, 2+g.bits)
	out = append(out, delta, deltaInv)
	out = append(out, bits...)
	return out
}

// DerivedCount is 2+bits: delta, delta_inv, and the bit decomposition
// of delta-1.
func (g *LessThan) DerivedCount() int { return 2 + g.bits }

// Assemble constrains delta == right-left, delta*delta_inv == 1 (so
// delta != 0), and delta-1 to equal its claimed bit decomposition.
func (g *LessThan) Assemble(cs r1cs.ConstraintSystem, inputs []r1cs.Variable, derived []r1cs.Variable) {
	left, right := inputs[0], inputs[1]
	deltaVar, deltaInvVar := derived[0], derived[1]
	bits := derived[2:]

	cs.Constrain(r1cs.LC(deltaVar).Sub(r1cs.LC(right)).Add(r1cs.LC(left)))

	_, _, indicatorVar := cs.Multiply(r1cs.LC(deltaVar), r1cs.LC(deltaInvVar))
	one := scalar.Element{}
	one.SetOne()
	cs.Constrain(r1cs.LC(indicatorVar).Sub(r1cs.LCConst(one)))

	bitsSum := constrainBits(cs, bits)
	cs.Constrain(r1cs.LC(deltaVar).Sub(r1cs.LCConst(one)).Sub(bitsSum))
}
