package gadgets

import (
	"math/big"

	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// decomposeBits splits value's canonical integer representation into n
// little-endian bits (least-significant first), as the raw material for
// a bit-decomposition range proof.
func decomposeBits(value scalar.Element, n int) []scalar.Element {
	v := value.BigInt(new(big.Int))
	out := make([]scalar.Element, n)
	for i := 0; i < n; i++ {
		if v.Bit(i) == 1 {
			out[i].SetOne()
		}
	}
	return out
}

// constrainBits emits, for every bit variable, the booleanity
// constraint b*(1-b) = 0, and returns the linear combination
// Σ bᵢ·2ⁱ — the weighted sum the caller checks the decomposed value
// against.
func constrainBits(cs r1cs.ConstraintSystem, bits []r1cs.Variable) r1cs.LinearCombination {
	one := scalar.Element{}
	one.SetOne()

	var sum r1cs.LinearCombination
	weight := scalar.Element{}
	weight.SetOne()
	for i, b := range bits {
		_, _, oVar := cs.Multiply(r1cs.LC(b), r1cs.LCConst(one).Sub(r1cs.LC(b)))
		cs.Constrain(r1cs.LC(oVar))

		term := r1cs.LCScaled(b, weight)
		if i == 0 {
			sum = term
		} else {
			sum = sum.Add(term)
		}
		weight.Add(&weight, &weight) // weight *= 2
	}
	return sum
}
