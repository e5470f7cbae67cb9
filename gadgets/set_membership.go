package gadgets

import (
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// SetMembership proves member belongs to set via a one-hot selector
// vector b_0..b_{k-1}: each selector is boolean, exactly one is 1, and
// the selected element equals member.
type SetMembership struct {
	Member r1cs.LinearCombination
	Set    []r1cs.LinearCombination
}

// NewSetMembership builds a SetMembership gadget. member and set must
// already be single-scalar linear combinations — the orchestrator
// reduces multi-block members/elements to single scalars via MiMC
// hashing before constructing this gadget (spec.md §4.E).
func NewSetMembership(member r1cs.LinearCombination, set []r1cs.LinearCombination) *SetMembership {
	return &SetMembership{Member: member, Set: set}
}

// Preprocess computes the one-hot selector: witnesses is
// [memberScalar, element0, element1, ...].
func (g *SetMembership) Preprocess(witnesses []scalar.Element) []scalar.Element {
	member := witnesses[0]
	elements := witnesses[1:]
	out := make([]scalar.Element, len(elements))
	for i := range elements {
		if elements[i].Equal(&member) {
			out[i].SetOne()
		}
	}
	return out
}

// DerivedCount is len(Set): one selector per candidate element.
func (g *SetMembership) DerivedCount() int { return len(g.Set) }

// Assemble constrains every selector to be boolean, their sum to be 1,
// and the weighted difference Σ bⱼ·(member - elementⱼ) to vanish.
func (g *SetMembership) Assemble(cs r1cs.ConstraintSystem, _ []r1cs.Variable, derived []r1cs.Variable) {
	one := scalar.Element{}
	one.SetOne()

	var selectorSum, equalitySum r1cs.LinearCombination
	for i, b := range derived {
		_, _, boolOVar := cs.Multiply(r1cs.LC(b), r1cs.LCConst(one).Sub(r1cs.LC(b)))
		cs.Constrain(r1cs.LC(boolOVar))

		diff := g.Member.Sub(g.Set[i])
		_, _, prodVar := cs.Multiply(r1cs.LC(b), diff)

		if i == 0 {
			selectorSum = r1cs.LC(b)
			equalitySum = r1cs.LC(prodVar)
		} else {
			selectorSum = selectorSum.Add(r1cs.LC(b))
			equalitySum = equalitySum.Add(r1cs.LC(prodVar))
		}
	}

	cs.Constrain(selectorSum.Sub(r1cs.LCConst(one)))
	cs.Constrain(equalitySum)
}
