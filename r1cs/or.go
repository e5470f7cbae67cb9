package r1cs

import "github.com/FairAds/bulletproof-gadgets/scalar"

// OrBranch is one already-recorded OR branch: Residuals is every
// linear combination the branch's own gadgets constrained to zero
// while it was being built (one per Constrain call a statement line
// emitted). All of them evaluate to zero exactly when this branch's
// statements hold; the reducer multiplies each against the branch's
// selector, so a dishonest selector can't hide a branch that only
// satisfies some of its own constraints.
type OrBranch struct {
	Residuals []LinearCombination
}

// OrReduce implements spec §5's OR combinator: it emits into cs the
// selector-polynomial constraint that holds iff at least one branch's
// Residuals are all zero — introduce a boolean selector sᵢ per branch,
// require Σsᵢ = 1, and constrain sᵢ·Residualᵢⱼ = 0 for every residual j
// recorded under branch i.
//
// On the prover side, selected names the branch that is actually true
// so the reducer can assign the boolean selectors; the verifier passes
// selected = -1, since it must never learn which branch holds, and
// relies on AllocateMultiplier(nil) to allocate the placeholder wires
// the proof's gate proofs later fill in.
func OrReduce(cs ConstraintSystem, branches []OrBranch, selected int) {
	n := len(branches)
	if n == 0 {
		return
	}
	isProver := selected >= 0

	var sum LinearCombination
	for i, br := range branches {
		var assignment *[2]scalar.Element
		if isProver {
			var s scalar.Element
			if i == selected {
				s.SetOne()
			}
			assignment = &[2]scalar.Element{s, s}
		}
		lVar, rVar, oVar := cs.AllocateMultiplier(assignment)
		// r == l makes o == l*l, and o == l then forces l in {0,1}.
		cs.Constrain(LC(rVar).Sub(LC(lVar)))
		cs.Constrain(LC(oVar).Sub(LC(lVar)))

		if i == 0 {
			sum = LC(lVar)
		} else {
			sum = sum.Add(LC(lVar))
		}

		for _, residual := range br.Residuals {
			_, _, prodVar := cs.Multiply(LC(lVar), residual)
			cs.Constrain(LC(prodVar))
		}
	}

	one := scalar.Element{}
	one.SetOne()
	cs.Constrain(sum.Sub(LCConst(one)))
}
