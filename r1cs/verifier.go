package r1cs

import (
	"fmt"
	"math/big"

	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Verifier is the verifier-flavoured constraint system: it only ever
// holds commitment points (never scalar values), mirroring the script
// walk the prover performed and checking the resulting proof.
type Verifier struct {
	Gens       pedersen.Gens
	Transcript *Transcript

	commitments []pedersen.Point
	set         []bool // whether commitments[i] holds a known point yet
	constraints []LinearCombination
	gates       [][3]Variable
}

// NewVerifier creates a verifier over gens, seeded with the same
// domain-separated transcript label the prover used.
func NewVerifier(gens pedersen.Gens, transcript *Transcript) *Verifier {
	return &Verifier{
		Gens:        gens,
		Transcript:  transcript,
		commitments: []pedersen.Point{gens.B},
		set:         []bool{true},
	}
}

// NumVars mirrors Prover.NumVars, used to seed a Buffer.
func (v *Verifier) NumVars() int { return len(v.commitments) }

// Reserve mirrors Prover.Reserve: a pure capacity hint, never changing
// already-allocated variable indices.
func (v *Verifier) Reserve(n int) {
	if n <= cap(v.commitments) {
		return
	}
	commitments := make([]pedersen.Point, len(v.commitments), n)
	copy(commitments, v.commitments)
	v.commitments = commitments

	set := make([]bool, len(v.set), n)
	copy(set, v.set)
	v.set = set
}

// Commit registers an externally-supplied commitment point (read from
// the .coms text) and returns its variable handle.
func (v *Verifier) Commit(point pedersen.Point) Variable {
	idx := len(v.commitments)
	v.commitments = append(v.commitments, point)
	v.set = append(v.set, true)
	b := point.Bytes()
	v.Transcript.AppendPoint("commitment", b[:])
	return Variable(idx)
}

func (v *Verifier) allocatePlaceholder() Variable {
	idx := len(v.commitments)
	v.commitments = append(v.commitments, pedersen.Point{})
	v.set = append(v.set, false)
	return Variable(idx)
}

// Multiply implements ConstraintSystem.
func (v *Verifier) Multiply(l, r LinearCombination) (Variable, Variable, Variable) {
	lVar := v.allocatePlaceholder()
	rVar := v.allocatePlaceholder()
	oVar := v.allocatePlaceholder()
	v.gates = append(v.gates, [3]Variable{lVar, rVar, oVar})
	v.Constrain(LC(lVar).Sub(l))
	v.Constrain(LC(rVar).Sub(r))
	return lVar, rVar, oVar
}

// AllocateMultiplier implements ConstraintSystem.
func (v *Verifier) AllocateMultiplier(_ *[2]scalar.Element) (Variable, Variable, Variable) {
	lVar := v.allocatePlaceholder()
	rVar := v.allocatePlaceholder()
	oVar := v.allocatePlaceholder()
	v.gates = append(v.gates, [3]Variable{lVar, rVar, oVar})
	return lVar, rVar, oVar
}

// Constrain implements ConstraintSystem.
func (v *Verifier) Constrain(lc LinearCombination) {
	v.constraints = append(v.constraints, lc)
}

func (v *Verifier) commitmentFor(variable Variable) pedersen.Point {
	if variable == ConstantOne {
		return v.Gens.B
	}
	return v.commitments[variable]
}

// Verify checks proof against every constraint and gate the script
// walk recorded. It returns (false, nil) on a genuine proof failure —
// per spec §7, proof failure is non-fatal — and a non-nil error only
// for a structural mismatch (wrong proof shape) that indicates the
// verifier was driven through a different script than the prover.
func (v *Verifier) Verify(proof *Proof) (bool, error) {
	if len(proof.Commitments) != len(v.commitments)-1 {
		return false, fmt.Errorf("proof shape mismatch: %d commitments, expected %d", len(proof.Commitments), len(v.commitments)-1)
	}
	if len(proof.ConstraintOpenings) != len(v.constraints) {
		return false, fmt.Errorf("proof shape mismatch: %d constraint openings, expected %d", len(proof.ConstraintOpenings), len(v.constraints))
	}
	if len(proof.GateProofs) != len(v.gates) {
		return false, fmt.Errorf("proof shape mismatch: %d gate proofs, expected %d", len(proof.GateProofs), len(v.gates))
	}

	for i, c := range proof.Commitments {
		idx := i + 1
		if v.set[idx] {
			if !v.commitments[idx].Equal(&c) {
				return false, nil
			}
			continue
		}
		v.commitments[idx] = c
		v.set[idx] = true
	}

	for i, lc := range v.constraints {
		if !v.checkConstraintOpening(lc, proof.ConstraintOpenings[i]) {
			return false, nil
		}
	}

	for i, g := range v.gates {
		ok := v.verifyGate(v.commitmentFor(g[0]), v.commitmentFor(g[1]), v.commitmentFor(g[2]), proof.GateProofs[i])
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func (v *Verifier) checkConstraintOpening(lc LinearCombination, rho scalar.Element) bool {
	var combined pedersen.Point
	first := true
	for _, t := range lc.Terms {
		c := v.commitmentFor(t.Variable)
		var term pedersen.Point
		term.ScalarMultiplication(&c, t.Coeff.BigInt(new(big.Int)))
		if first {
			combined = term
			first = false
			continue
		}
		combined.Add(&combined, &term)
	}
	var expected pedersen.Point
	expected.ScalarMultiplication(&v.Gens.BBlinding, rho.BigInt(new(big.Int)))
	return combined.Equal(&expected)
}

func (v *Verifier) verifyGate(Cl, Cr, Co pedersen.Point, gp GateProof) bool {
	a1b := gp.A1.Bytes()
	a2b := gp.A2.Bytes()
	v.Transcript.AppendPoint("gate-A1", a1b[:])
	v.Transcript.AppendPoint("gate-A2", a2b[:])
	e := v.Transcript.ChallengeScalar("gate-challenge")

	lhs1 := v.Gens.Commit(&gp.Zr, &gp.Zbeta)
	var eCr, rhs1 pedersen.Point
	eCr.ScalarMultiplication(&Cr, e.BigInt(new(big.Int)))
	rhs1.Add(&gp.A1, &eCr)
	if !lhs1.Equal(&rhs1) {
		return false
	}

	var zrCl, zgammaH, lhs2 pedersen.Point
	zrCl.ScalarMultiplication(&Cl, gp.Zr.BigInt(new(big.Int)))
	zgammaH.ScalarMultiplication(&v.Gens.BBlinding, gp.Zgamma.BigInt(new(big.Int)))
	lhs2.Add(&zrCl, &zgammaH)

	var eCo, rhs2 pedersen.Point
	eCo.ScalarMultiplication(&Co, e.BigInt(new(big.Int)))
	rhs2.Add(&gp.A2, &eCo)
	return lhs2.Equal(&rhs2)
}
