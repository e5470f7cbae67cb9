package r1cs

import (
	"fmt"
	"math/big"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Prover is the prover-flavoured constraint system: it tracks every
// variable's scalar assignment and blinding factor so it can commit,
// multiply, constrain, and finally produce a proof over the recorded
// relations. It plays the role spec.md assigns to bulletproofs::r1cs::Prover.
type Prover struct {
	Gens       pedersen.Gens
	Transcript *Transcript

	values      []scalar.Element
	blindings   []scalar.Element
	commitments []pedersen.Point
	constraints []LinearCombination
	gates       [][3]Variable
}

// NewProver creates a prover over gens, seeded with transcript (already
// initialized via NewTranscript(label) by the caller).
func NewProver(gens pedersen.Gens, transcript *Transcript) *Prover {
	one := scalar.Element{}
	one.SetOne()
	return &Prover{
		Gens:        gens,
		Transcript:  transcript,
		values:      []scalar.Element{one},
		blindings:   []scalar.Element{{}},
		commitments: []pedersen.Point{gens.B},
	}
}

// NumVars returns the number of variables allocated so far (including
// ConstantOne), used to seed a Buffer's variable counter.
func (p *Prover) NumVars() int { return len(p.values) }

// Reserve grows the prover's internal variable-table capacity to at
// least n. It is a pure optimization hint (Config.GeneratorCapacityHint
// passed through by the orchestrator) and never changes the number of
// already-allocated variables or their indices.
func (p *Prover) Reserve(n int) {
	if n <= cap(p.values) {
		return
	}
	values := make([]scalar.Element, len(p.values), n)
	copy(values, p.values)
	p.values = values

	blindings := make([]scalar.Element, len(p.blindings), n)
	copy(blindings, p.blindings)
	p.blindings = blindings

	commitments := make([]pedersen.Point, len(p.commitments), n)
	copy(commitments, p.commitments)
	p.commitments = commitments
}

// Value returns a previously allocated variable's scalar assignment,
// used as a companion Buffer's lookup function for variables the
// buffer did not itself allocate.
func (p *Prover) Value(v Variable) scalar.Element { return p.values[v] }

func (p *Prover) allocate(value, blinding scalar.Element) Variable {
	idx := len(p.values)
	p.values = append(p.values, value)
	p.blindings = append(p.blindings, blinding)
	p.commitments = append(p.commitments, p.Gens.Commit(&value, &blinding))
	return Variable(idx)
}

func freshBlinding() scalar.Element {
	var b scalar.Element
	if _, err := b.SetRandom(); err != nil {
		panic(fmt.Sprintf("r1cs: drawing blinding factor: %v", err))
	}
	return b
}

// Commit splits raw into 32-byte scalar blocks and Pedersen-commits
// each, appending every commitment point to the transcript. It is
// component B's prover-side entry point.
func (p *Prover) Commit(raw []byte) ([]pedersen.Opening, []Variable, error) {
	blocks, err := scalar.BEToScalars(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: committing value", xerrors.Size)
	}
	openings := make([]pedersen.Opening, len(blocks))
	vars := make([]Variable, len(blocks))
	for i, v := range blocks {
		blinding := freshBlinding()
		vr := p.allocate(v, blinding)
		openings[i] = pedersen.Opening{Value: v, Blinding: blinding, Commitment: p.commitments[vr]}
		vars[i] = vr
		cb := p.commitments[vr].Bytes()
		p.Transcript.AppendPoint("commitment", cb[:])
	}
	return openings, vars, nil
}

// CommitScalar commits a single already-computed scalar (used for
// derived witnesses, which arrive as scalars rather than raw bytes).
func (p *Prover) CommitScalar(v scalar.Element) (pedersen.Opening, Variable) {
	blinding := freshBlinding()
	vr := p.allocate(v, blinding)
	cb := p.commitments[vr].Bytes()
	p.Transcript.AppendPoint("commitment", cb[:])
	return pedersen.Opening{Value: v, Blinding: blinding, Commitment: p.commitments[vr]}, vr
}

// Eval evaluates a linear combination against the prover's known
// variable assignments.
func (p *Prover) Eval(lc LinearCombination) scalar.Element {
	var sum scalar.Element
	for _, t := range lc.Terms {
		var term scalar.Element
		term.Mul(&t.Coeff, &p.values[t.Variable])
		sum.Add(&sum, &term)
	}
	return sum
}

func (p *Prover) evalBlinding(lc LinearCombination) scalar.Element {
	var sum scalar.Element
	for _, t := range lc.Terms {
		var term scalar.Element
		if t.Variable == ConstantOne {
			continue // constant term carries no blinding
		}
		term.Mul(&t.Coeff, &p.blindings[t.Variable])
		sum.Add(&sum, &term)
	}
	return sum
}

// Multiply implements ConstraintSystem.
func (p *Prover) Multiply(l, r LinearCombination) (Variable, Variable, Variable) {
	lv := p.Eval(l)
	rv := p.Eval(r)
	var ov scalar.Element
	ov.Mul(&lv, &rv)

	lVar := p.allocate(lv, freshBlinding())
	rVar := p.allocate(rv, freshBlinding())
	oVar := p.allocate(ov, freshBlinding())
	p.gates = append(p.gates, [3]Variable{lVar, rVar, oVar})

	p.Constrain(LC(lVar).Sub(l))
	p.Constrain(LC(rVar).Sub(r))
	return lVar, rVar, oVar
}

// AllocateMultiplier implements ConstraintSystem.
func (p *Prover) AllocateMultiplier(assignment *[2]scalar.Element) (Variable, Variable, Variable) {
	var lv, rv scalar.Element
	if assignment != nil {
		lv, rv = assignment[0], assignment[1]
	}
	var ov scalar.Element
	ov.Mul(&lv, &rv)

	lVar := p.allocate(lv, freshBlinding())
	rVar := p.allocate(rv, freshBlinding())
	oVar := p.allocate(ov, freshBlinding())
	p.gates = append(p.gates, [3]Variable{lVar, rVar, oVar})
	return lVar, rVar, oVar
}

// Constrain implements ConstraintSystem.
func (p *Prover) Constrain(lc LinearCombination) {
	p.constraints = append(p.constraints, lc)
}

// Prove computes the proof over every constraint and multiplication
// gate recorded so far. It never errors on an unsatisfied script
// (matching bulletproofs::r1cs, where proving an unsatisfiable circuit
// still yields bytes — it is Verify that reports false); it only
// errors on an internal programming mistake (a malformed linear
// combination referencing an impossible variable index, which would be
// a bug in a gadget, not a witness problem).
func (p *Prover) Prove() (*Proof, error) {
	proof := &Proof{
		GeneratorCount: NextPow2(len(p.gates)),
	}
	for _, lc := range p.constraints {
		rho := p.evalBlinding(lc)
		proof.ConstraintOpenings = append(proof.ConstraintOpenings, rho)
	}
	for _, g := range p.gates {
		gp := p.proveGate(g[0], g[1], g[2])
		proof.GateProofs = append(proof.GateProofs, gp)
	}
	proof.Commitments = append([]pedersen.Point{}, p.commitments[1:]...)
	return proof, nil
}

// proveGate produces a zero-knowledge proof that o = l*r given public
// commitments C_l, C_r, C_o, via a Schnorr-style proof of knowledge of
// r (the same r opened by C_r) such that C_o - r*C_l opens to zero:
//
//	C_r = r*B + beta_r*H
//	C_o = r*C_l + gamma*H   where gamma = beta_o - r*beta_l
//
// This is a standard "equality of discrete log across bases" Sigma
// protocol (Chaum-Pedersen-style), generalized to use the point C_l
// itself as the second statement's base.
func (p *Prover) proveGate(lVar, rVar, oVar Variable) GateProof {
	r := p.values[rVar]
	betaL := p.blindings[lVar]
	betaR := p.blindings[rVar]
	betaO := p.blindings[oVar]
	Cl := p.commitments[lVar]

	var rBetaL scalar.Element
	rBetaL.Mul(&r, &betaL)
	var gamma scalar.Element
	gamma.Sub(&betaO, &rBetaL)

	kr := freshBlinding()
	kbeta := freshBlinding()
	kgamma := freshBlinding()

	A1 := p.Gens.Commit(&kr, &kbeta)

	var krCl, kgammaH, A2 pedersen.Point
	krCl.ScalarMultiplication(&Cl, kr.BigInt(new(big.Int)))
	kgammaH.ScalarMultiplication(&p.Gens.BBlinding, kgamma.BigInt(new(big.Int)))
	A2.Add(&krCl, &kgammaH)

	a1b := A1.Bytes()
	a2b := A2.Bytes()
	p.Transcript.AppendPoint("gate-A1", a1b[:])
	p.Transcript.AppendPoint("gate-A2", a2b[:])
	e := p.Transcript.ChallengeScalar("gate-challenge")

	var zr, zbeta, zgamma, tmp scalar.Element
	tmp.Mul(&e, &r)
	zr.Add(&kr, &tmp)
	tmp.Mul(&e, &betaR)
	zbeta.Add(&kbeta, &tmp)
	tmp.Mul(&e, &gamma)
	zgamma.Add(&kgamma, &tmp)

	return GateProof{A1: A1, A2: A2, Zr: zr, Zbeta: zbeta, Zgamma: zgamma}
}

// NextPow2 returns the smallest power of two >= n (1 for n<=1), the
// "round_pow2" generator-sizing rule from the reference prove.rs.
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
