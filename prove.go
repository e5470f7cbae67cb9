package bulletproofgadgets

import (
	"fmt"
	"strings"

	"github.com/FairAds/bulletproof-gadgets/assignments"
	"github.com/FairAds/bulletproof-gadgets/gadgets"
	"github.com/FairAds/bulletproof-gadgets/grammar"
	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
	"github.com/FairAds/bulletproof-gadgets/internal/xlog"
	"github.com/FairAds/bulletproof-gadgets/merkle"
	"github.com/FairAds/bulletproof-gadgets/mimc"
	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Prove is the prover-side entry point (component I): it consumes the
// instance assignments, the witness assignments, and the statement
// script, and produces a proof plus the commitments text that must
// travel alongside it to Verify. cfg.Label domain-separates the
// transcript the same way across Prove and Verify — callers must pass
// a Config with the same Label to both.
func Prove(cfg Config, instanceText, witnessText, scriptText string) (proofBytes []byte, commitmentsText string, err error) {
	gens := pedersen.DefaultGens()
	prover := r1cs.NewProver(gens, r1cs.NewTranscript(cfg.Label))
	if cfg.GeneratorCapacityHint > 0 {
		prover.Reserve(cfg.GeneratorCapacityHint)
	}
	reg := assignments.New()

	instanceHex, err := assignments.ParseInstanceText(instanceText)
	if err != nil {
		return nil, "", err
	}
	instances, err := decodeHexMap(instanceHex)
	if err != nil {
		return nil, "", err
	}
	for name, raw := range instances {
		reg.SetInstance(name, raw)
	}

	var coms strings.Builder
	witnessLines, err := assignments.ParseWitnessOrdered(witnessText)
	if err != nil {
		return nil, "", err
	}
	for _, nh := range witnessLines {
		raw, err := scalar.HexToBytes(nh.Hex)
		if err != nil {
			return nil, "", fmt.Errorf("%w: decoding witness W%s: %v", xerrors.Parse, nh.Name, err)
		}
		openings, vars, err := prover.Commit(raw)
		if err != nil {
			return nil, "", err
		}
		scalars := make([]scalar.Element, len(openings))
		points := make([]pedersen.Point, len(openings))
		for i, o := range openings {
			scalars[i] = o.Value
			points[i] = o.Commitment
			name := assignments.WitnessCommitmentName(nh.Name, i)
			appendCommitmentLine(&coms, name, o.Commitment)
			reg.SetCommitment(name, vars[i])
		}
		reg.SetWitness(nh.Name, assignments.WitnessEntry{Scalars: scalars, Commitments: points, Vars: vars, Raw: raw})
	}

	pc := &proveCtx{reg: reg, prover: prover, coms: &coms}

	sc := newScript(scriptText)
	for sc.hasNext() {
		index, line := sc.next()
		if grammar.Classify(line) == grammar.OpOr {
			xlog.Debug("entering OR block", map[string]interface{}{"line": index})
			if err := pc.proveOr(sc, index); err != nil {
				return nil, "", err
			}
			continue
		}
		xlog.Debug("dispatching statement", map[string]interface{}{"line": index, "text": line})
		if err := pc.dispatchStatement(index, line); err != nil {
			return nil, "", err
		}
	}

	proof, err := prover.Prove()
	if err != nil {
		return nil, "", err
	}
	xlog.Debug("proof assembled", map[string]interface{}{"gates": len(proof.GateProofs), "constraints": len(proof.ConstraintOpenings)})
	return proof.ToBytes(), coms.String(), nil
}

// proveCtx bundles the state every per-statement prover handler needs.
type proveCtx struct {
	reg    *assignments.Assignments
	prover *r1cs.Prover
	coms   *strings.Builder
}

func (pc *proveCtx) witnessVars(name string) ([]r1cs.Variable, error) {
	e, err := pc.reg.GetWitness(name)
	if err != nil {
		return nil, err
	}
	return e.Vars, nil
}

// recordDerived Pedersen-commits a gadget's already-computed derived
// witnesses is not this function's job (gadgets.Setup did that); this
// appends one D<index>-0-<k> line per derived commitment and registers
// its variable handle, so a later Verify run can read them back by the
// same names. Subroutine is always 0: every top-level statement calls
// at most one derived-witness-producing gadget (SET_MEMBER/MERKLE fold
// their operands via in-circuit hashing alone, which needs no
// commitment — see foldOperand in config.go), so there is never a
// second gadget sharing a line's index to disambiguate.
func (pc *proveCtx) recordDerived(index int, coms []pedersen.Point, vars []r1cs.Variable) {
	for k, v := range vars {
		name := assignments.DerivedCommitmentName(index, 0, k)
		appendCommitmentLine(pc.coms, name, coms[k])
		pc.reg.SetCommitment(name, v)
	}
}

func (pc *proveCtx) dispatchStatement(index int, line string) error {
	stmt, err := grammar.ParseStatement(line)
	if err != nil {
		return err
	}
	switch st := stmt.(type) {
	case grammar.BoundStmt:
		return pc.proveBound(index, st)
	case grammar.HashStmt:
		return pc.assembleHash(pc.prover, st)
	case grammar.MerkleStmt:
		return pc.assembleMerkle(pc.prover, st)
	case grammar.EqualityStmt:
		return pc.assembleEquality(pc.prover, st)
	case grammar.UnequalStmt:
		return pc.proveUnequal(index, st)
	case grammar.LessThanStmt:
		return pc.proveLessThan(index, st)
	case grammar.SetMemberStmt:
		return pc.proveSetMember(index, st)
	default:
		return fmt.Errorf("%w: unsupported statement at line %d", xerrors.Parse, index)
	}
}

// hashImageLC resolves the HASH statement's Image operand and the
// MERKLE statement's Root operand — both a single target scalar a
// gadget's computed value is constrained to equal, never folded
// through another hash (unlike a SET_MEMBER/MERKLE leaf operand, an
// Image/Root is already the hash value itself when instance-kind).
func (pc *proveCtx) hashImageLC(v grammar.Var) (r1cs.LinearCombination, error) {
	if v.Kind == grammar.VarWitness {
		e, err := pc.reg.GetWitness(v.Name)
		if err != nil {
			return r1cs.LinearCombination{}, err
		}
		if err := assignments.AssertWitnessSize32(v.Name, e); err != nil {
			return r1cs.LinearCombination{}, err
		}
		return r1cs.LC(e.Vars[0]), nil
	}
	s, err := instanceScalarSingle(pc.reg, v)
	if err != nil {
		return r1cs.LinearCombination{}, err
	}
	return r1cs.LCConst(s), nil
}

// foldScalar is hashImageLC's native-value counterpart: the real
// scalar a SET_MEMBER operand folds to, needed because SetMembership's
// Preprocess compares actual values to build the one-hot selector,
// not just linear combinations.
func (pc *proveCtx) foldScalar(v grammar.Var) (scalar.Element, error) {
	if v.Kind == grammar.VarInstance {
		raw, err := instanceBytes(pc.reg, v, false)
		if err != nil {
			return scalar.Element{}, err
		}
		return mimc.HashBytes(raw)
	}
	e, err := pc.reg.GetWitness(v.Name)
	if err != nil {
		return scalar.Element{}, err
	}
	return mimc.Hash(e.Scalars), nil
}

// assembleHash, assembleMerkle and assembleEquality take cs explicitly
// so the same statement handler serves both a top-level (cs = the real
// Prover) and an OR-branch (cs = a deferred Buffer) call site.

func (pc *proveCtx) assembleHash(cs r1cs.ConstraintSystem, st grammar.HashStmt) error {
	preimage, err := pc.reg.GetWitness(st.Preimage.Name)
	if err != nil {
		return err
	}
	imageLC, err := pc.hashImageLC(st.Image)
	if err != nil {
		return err
	}
	g := gadgets.NewMimcHash256(imageLC)
	gadgets.Prove(g, cs, preimage.Vars, nil)
	return nil
}

func (pc *proveCtx) assembleMerkle(cs r1cs.ConstraintSystem, st grammar.MerkleStmt) error {
	rootLC, err := pc.hashImageLC(st.Root)
	if err != nil {
		return err
	}

	refs := st.Pattern.LeafNames()
	var instanceLeaves, witnessLeaves []r1cs.LinearCombination
	for _, ref := range refs {
		v := grammar.Var{Name: ref.Name, Kind: grammar.VarWitness}
		if ref.Kind == merkle.LeafInstance {
			v.Kind = grammar.VarInstance
		}
		lc, err := foldOperand(cs, pc.reg, v, pc.witnessVars)
		if err != nil {
			return err
		}
		if v.Kind == grammar.VarWitness {
			witnessLeaves = append(witnessLeaves, lc)
		} else {
			instanceLeaves = append(instanceLeaves, lc)
		}
	}

	g := gadgets.NewMerkleTree256(rootLC, instanceLeaves, witnessLeaves, st.Pattern)
	gadgets.Prove(g, cs, nil, nil)
	return nil
}

func (pc *proveCtx) assembleEquality(cs r1cs.ConstraintSystem, st grammar.EqualityStmt) error {
	left, err := pc.reg.GetWitness(st.Left.Name)
	if err != nil {
		return err
	}
	var right []r1cs.LinearCombination
	if st.Right.Kind == grammar.VarWitness {
		e, err := pc.reg.GetWitness(st.Right.Name)
		if err != nil {
			return err
		}
		right = lcsOfVars(e.Vars)
	} else {
		right, err = instanceLCs(pc.reg, st.Right)
		if err != nil {
			return err
		}
	}
	g := gadgets.NewEquality(right)
	gadgets.Prove(g, cs, left.Vars, nil)
	return nil
}

func (pc *proveCtx) proveBound(index int, st grammar.BoundStmt) error {
	value, err := pc.reg.GetWitness(st.Value.Name)
	if err != nil {
		return err
	}
	if err := assignments.AssertWitnessSize32(st.Value.Name, value); err != nil {
		return err
	}
	min, err := instanceScalarSingle(pc.reg, st.Min)
	if err != nil {
		return err
	}
	max, err := instanceScalarSingle(pc.reg, st.Max)
	if err != nil {
		return err
	}

	g := gadgets.NewBoundsCheck(min, max)
	coms, vars := gadgets.Setup(g, pc.prover, []scalar.Element{value.Scalars[0]})
	pc.recordDerived(index, coms, vars)
	gadgets.Prove(g, pc.prover, []r1cs.Variable{value.Vars[0]}, vars)
	return nil
}

func (pc *proveCtx) proveUnequal(index int, st grammar.UnequalStmt) error {
	left, err := pc.reg.GetWitness(st.Left.Name)
	if err != nil {
		return err
	}
	var rightLCs []r1cs.LinearCombination
	var rightScalars []scalar.Element
	if st.Right.Kind == grammar.VarWitness {
		e, err := pc.reg.GetWitness(st.Right.Name)
		if err != nil {
			return err
		}
		rightLCs = lcsOfVars(e.Vars)
		rightScalars = e.Scalars
	} else {
		s, err := instanceScalars(pc.reg, st.Right)
		if err != nil {
			return err
		}
		rightLCs = make([]r1cs.LinearCombination, len(s))
		for i, v := range s {
			rightLCs[i] = r1cs.LCConst(v)
		}
		rightScalars = s
	}
	if len(rightLCs) != len(left.Vars) {
		return fmt.Errorf("%w: UNEQUAL block-count mismatch at line %d", xerrors.Structural, index)
	}

	g := gadgets.NewInequality(rightLCs, rightScalars)
	coms, vars := gadgets.Setup(g, pc.prover, left.Scalars)
	pc.recordDerived(index, coms, vars)
	gadgets.Prove(g, pc.prover, left.Vars, vars)
	return nil
}

func (pc *proveCtx) proveLessThan(index int, st grammar.LessThanStmt) error {
	left, err := pc.reg.GetWitness(st.Left.Name)
	if err != nil {
		return err
	}
	if err := assignments.AssertWitnessSize32(st.Left.Name, left); err != nil {
		return err
	}
	right, err := pc.reg.GetWitness(st.Right.Name)
	if err != nil {
		return err
	}
	if err := assignments.AssertWitnessSize32(st.Right.Name, right); err != nil {
		return err
	}

	g := gadgets.NewLessThan(gadgets.DefaultLessThanBits)
	witnesses := []scalar.Element{left.Scalars[0], right.Scalars[0]}
	coms, vars := gadgets.Setup(g, pc.prover, witnesses)
	pc.recordDerived(index, coms, vars)
	gadgets.Prove(g, pc.prover, []r1cs.Variable{left.Vars[0], right.Vars[0]}, vars)
	return nil
}

func (pc *proveCtx) proveSetMember(index int, st grammar.SetMemberStmt) error {
	memberLC, err := foldOperand(pc.prover, pc.reg, st.Member, pc.witnessVars)
	if err != nil {
		return err
	}
	memberScalar, err := pc.foldScalar(st.Member)
	if err != nil {
		return err
	}

	setLCs := make([]r1cs.LinearCombination, len(st.Set))
	witnesses := make([]scalar.Element, 0, len(st.Set)+1)
	witnesses = append(witnesses, memberScalar)
	for i, v := range st.Set {
		lc, err := foldOperand(pc.prover, pc.reg, v, pc.witnessVars)
		if err != nil {
			return err
		}
		setLCs[i] = lc
		s, err := pc.foldScalar(v)
		if err != nil {
			return err
		}
		witnesses = append(witnesses, s)
	}

	g := gadgets.NewSetMembership(memberLC, setLCs)
	coms, vars := gadgets.Setup(g, pc.prover, witnesses)
	pc.recordDerived(index, coms, vars)
	gadgets.Prove(g, pc.prover, nil, vars)
	return nil
}

// proveOr handles one `OR [ <branch> ; <branch> ; ... ]` block: each
// branch is built speculatively against a Buffer seeded at the real
// prover's current variable count, so every branch allocates variables
// in the same range the real prover will later replay them into. Only
// EQUALS/HASH/MERKLE may appear inside a branch — the gadgets behind
// BOUND/UNEQUAL/LESS_THAN/SET_MEMBER all need Setup's derived-witness
// commitments, and deciding which branch's commitments belong in the
// final proof before knowing which branch is true is exactly the
// bookkeeping problem OR exists to avoid; see DESIGN.md.
func (pc *proveCtx) proveOr(sc *script, orIndex int) error {
	buf := r1cs.NewBuffer(true, pc.prover.NumVars())
	buf.SetLookup(pc.prover.Value)

	var branches []r1cs.OrBranch
	for sc.hasNext() {
		switch sc.peekOp() {
		case grammar.OpArrayEnd:
			sc.next()
			goto reduced
		case grammar.OpBlockEnd:
			sc.next()
			continue
		}

		index, line := sc.next()
		buf.Snapshot()
		if err := pc.dispatchOrBranch(buf, index, line); err != nil {
			return err
		}
		ops := buf.TakeSinceSnapshot()
		var residuals []r1cs.LinearCombination
		var kept []r1cs.Op
		for _, op := range ops {
			if op.Kind == r1cs.OpConstrain {
				residuals = append(residuals, op.LC)
			} else {
				kept = append(kept, op)
			}
		}
		buf.KeepOps(kept)
		branches = append(branches, r1cs.OrBranch{Residuals: residuals})
	}

reduced:
	selected := -1
	for i, br := range branches {
		satisfied := true
		for _, res := range br.Residuals {
			v := buf.Eval(res)
			if !v.IsZero() {
				satisfied = false
				break
			}
		}
		if satisfied {
			selected = i
			break
		}
	}
	if selected < 0 {
		return fmt.Errorf("%w: no OR branch at line %d is satisfied by the given witness", xerrors.Structural, orIndex)
	}
	xlog.Debug("OR branch selected", map[string]interface{}{"line": orIndex, "branch": selected, "branches": len(branches)})

	r1cs.OrReduce(buf, branches, selected)
	return buf.Replay(pc.prover, nil)
}

func (pc *proveCtx) dispatchOrBranch(cs r1cs.ConstraintSystem, index int, line string) error {
	stmt, err := grammar.ParseStatement(line)
	if err != nil {
		return err
	}
	switch st := stmt.(type) {
	case grammar.EqualityStmt:
		return pc.assembleEquality(cs, st)
	case grammar.HashStmt:
		return pc.assembleHash(cs, st)
	case grammar.MerkleStmt:
		return pc.assembleMerkle(cs, st)
	default:
		return fmt.Errorf("%w: statement at line %d is not supported inside an OR branch (only EQUALS, HASH, and MERKLE can be speculatively branched)", xerrors.Structural, index)
	}
}
