// Package r1cs is the trusted constraint-system engine spec.md treats
// as an external collaborator: a rank-1 constraint system with
// Pedersen-committed wires, a Fiat-Shamir transcript, and a linear-size
// arithmetic-circuit proof. No such general R1CS Bulletproofs library
// exists in the example corpus (see DESIGN.md), so this package is a
// from-scratch, from-primitives engine built on gnark-crypto's bn254
// arithmetic and this module's own pedersen/mimc packages, exposing
// exactly the surface spec.md's components D and F name: Variable,
// LinearCombination, ConstraintSystem, Prover, Verifier, Transcript,
// and the deferred-operation Buffer.
package r1cs

import (
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Variable is an opaque handle assigned by a ConstraintSystem when a
// value is committed or allocated. Variable 0 is always the constant 1.
type Variable int

// ConstantOne is the reserved variable representing the constant 1,
// present in every constraint system so linear combinations can carry
// a constant term as a coefficient on it.
const ConstantOne Variable = 0

// Term is one addend of a LinearCombination: coefficient * variable.
type Term struct {
	Variable Variable
	Coeff    scalar.Element
}

// LinearCombination is a formal sum Σ cᵢ·vᵢ, including the constant
// term as a coefficient on ConstantOne.
type LinearCombination struct {
	Terms []Term
}

// LC builds a LinearCombination from a single variable with coefficient 1.
func LC(v Variable) LinearCombination {
	one := scalar.Element{}
	one.SetOne()
	return LinearCombination{Terms: []Term{{Variable: v, Coeff: one}}}
}

// LCScaled builds coeff*v.
func LCScaled(v Variable, coeff scalar.Element) LinearCombination {
	return LinearCombination{Terms: []Term{{Variable: v, Coeff: coeff}}}
}

// LCConst builds a constant linear combination (coeff on ConstantOne).
func LCConst(c scalar.Element) LinearCombination {
	return LinearCombination{Terms: []Term{{Variable: ConstantOne, Coeff: c}}}
}

// Add returns lc + other.
func (lc LinearCombination) Add(other LinearCombination) LinearCombination {
	out := LinearCombination{Terms: append(append([]Term{}, lc.Terms...), other.Terms...)}
	return out
}

// Sub returns lc - other.
func (lc LinearCombination) Sub(other LinearCombination) LinearCombination {
	neg := make([]Term, len(other.Terms))
	for i, t := range other.Terms {
		var nc scalar.Element
		nc.Neg(&t.Coeff)
		neg[i] = Term{Variable: t.Variable, Coeff: nc}
	}
	return lc.Add(LinearCombination{Terms: neg})
}

// Scale returns c*lc.
func (lc LinearCombination) Scale(c scalar.Element) LinearCombination {
	out := make([]Term, len(lc.Terms))
	for i, t := range lc.Terms {
		var nc scalar.Element
		nc.Mul(&t.Coeff, &c)
		out[i] = Term{Variable: t.Variable, Coeff: nc}
	}
	return LinearCombination{Terms: out}
}

// simplify collapses duplicate-variable terms by summation. Eval,
// Constrain and proof serialization do not call it; they tolerate
// repeated terms.
func (lc LinearCombination) simplify() LinearCombination {
	order := []Variable{}
	sums := map[Variable]scalar.Element{}
	for _, t := range lc.Terms {
		if _, ok := sums[t.Variable]; !ok {
			order = append(order, t.Variable)
			sums[t.Variable] = t.Coeff
		} else {
			s := sums[t.Variable]
			s.Add(&s, &t.Coeff)
			sums[t.Variable] = s
		}
	}
	out := make([]Term, 0, len(order))
	for _, v := range order {
		out = append(out, Term{Variable: v, Coeff: sums[v]})
	}
	return LinearCombination{Terms: out}
}

// ConstraintSystem is the shared shape gadgets and the orchestrator
// program against (component D's "cs" parameter), implemented by both
// Prover, Verifier, and Buffer so a gadget's assemble() is identical
// on every side.
type ConstraintSystem interface {
	// Multiply allocates a multiplication gate (l_var, r_var, o_var)
	// with o_var = l_var * r_var, and constrains l_var == l, r_var == r.
	Multiply(l, r LinearCombination) (Variable, Variable, Variable)
	// AllocateMultiplier allocates a multiplication gate directly from
	// an assignment (used when no pre-existing linear combination
	// constrains the two input wires). assignment is nil on the
	// verifier/buffer-without-witness side.
	AllocateMultiplier(assignment *[2]scalar.Element) (Variable, Variable, Variable)
	// Constrain asserts lc == 0.
	Constrain(lc LinearCombination)
}
