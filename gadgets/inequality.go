package gadgets

import (
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Inequality asserts left != right, block-by-block: for each block it
// allocates delta = left-right and a claimed inverse delta_inv, derives
// a boolean indicator e = delta*delta_inv (forced to 0 whenever
// delta==0, and only made 1 by supplying the genuine inverse), and
// requires that at least one indicator is 1 via a sum_inv witness with
// sum(e) * sum_inv == 1.
type Inequality struct {
	Right        []r1cs.LinearCombination
	RightScalars []scalar.Element
}

// NewInequality builds an Inequality gadget. rightScalars carries the
// actual right-hand values so Preprocess can compute genuine deltas and
// inverses; it is only read on the prover side.
func NewInequality(right []r1cs.LinearCombination, rightScalars []scalar.Element) *Inequality {
	return &Inequality{Right: right, RightScalars: rightScalars}
}

// Preprocess derives, per block, the delta and its inverse (zero when
// delta is zero), plus a single sum_inv closing witness.
func (g *Inequality) Preprocess(witnesses []scalar.Element) []scalar.Element {
	n := len(witnesses)
	deltas := make([]scalar.Element, n)
	deltaInvs := make([]scalar.Element, n)
	var sum scalar.Element
	for i := 0; i < n; i++ {
		deltas[i].Sub(&witnesses[i], &g.RightScalars[i])
		if !deltas[i].IsZero() {
			deltaInvs[i].Inverse(&deltas[i])
		}
		var indicator scalar.Element
		indicator.Mul(&deltas[i], &deltaInvs[i])
		sum.Add(&sum, &indicator)
	}
	var sumInv scalar.Element
	if !sum.IsZero() {
		sumInv.Inverse(&sum)
	}

	out := make([]scalar.Element, 0, 2*n+1)
	out = append(out, deltas...)
	out = append(out, deltaInvs...)
	out = append(out, sumInv)
	return out
}

// DerivedCount is 2n+1: a delta and its inverse per block, plus one
// closing sum_inv witness.
func (g *Inequality) DerivedCount() int { return 2*len(g.Right) + 1 }

// Assemble checks every delta matches left-right, derives each
// indicator via a multiplication gate, and closes with the sum_inv
// check.
func (g *Inequality) Assemble(cs r1cs.ConstraintSystem, inputs []r1cs.Variable, derived []r1cs.Variable) {
	n := len(inputs)
	deltas := derived[:n]
	deltaInvs := derived[n : 2*n]
	sumInvVar := derived[2*n]

	var sum r1cs.LinearCombination
	for i := 0; i < n; i++ {
		diff := r1cs.LC(inputs[i]).Sub(g.Right[i])
		cs.Constrain(r1cs.LC(deltas[i]).Sub(diff))

		_, _, eVar := cs.Multiply(r1cs.LC(deltas[i]), r1cs.LC(deltaInvs[i]))
		if i == 0 {
			sum = r1cs.LC(eVar)
		} else {
			sum = sum.Add(r1cs.LC(eVar))
		}
	}

	_, _, prodVar := cs.Multiply(sum, r1cs.LC(sumInvVar))
	one := scalar.Element{}
	one.SetOne()
	cs.Constrain(r1cs.LC(prodVar).Sub(r1cs.LCConst(one)))
}
