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
	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Verify is the verifier-side entry point (component I), the mirror of
// Prove: it replays the same statement script against a Verifier,
// reconstructing every variable handle from the .coms commitments text
// instead of from real witness values, then checks proofBytes against
// every constraint and gate the replay recorded. cfg must carry the
// same Label Prove was called with.
func Verify(cfg Config, instanceText, commitmentsText, scriptText string, proofBytes []byte) (bool, error) {
	gens := pedersen.DefaultGens()
	verifier := r1cs.NewVerifier(gens, r1cs.NewTranscript(cfg.Label))
	if cfg.GeneratorCapacityHint > 0 {
		verifier.Reserve(cfg.GeneratorCapacityHint)
	}
	reg := assignments.New()

	instanceHex, err := assignments.ParseInstanceText(instanceText)
	if err != nil {
		return false, err
	}
	instances, err := decodeHexMap(instanceHex)
	if err != nil {
		return false, err
	}
	for name, raw := range instances {
		reg.SetInstance(name, raw)
	}

	comLines, err := assignments.ParseCommitmentsOrdered(commitmentsText)
	if err != nil {
		return false, err
	}
	for _, nh := range comLines {
		raw, err := scalar.HexToBytes(nh.Hex)
		if err != nil {
			return false, fmt.Errorf("%w: decoding commitment %s: %v", xerrors.Parse, nh.Name, err)
		}
		var point pedersen.Point
		if _, err := point.SetBytes(raw); err != nil {
			return false, fmt.Errorf("%w: decompressing commitment %s: %v", xerrors.Parse, nh.Name, err)
		}
		v := verifier.Commit(point)
		reg.SetCommitment(nh.Name, v)
	}
	if err := bindWitnessCommitments(reg, comLines); err != nil {
		return false, err
	}

	vc := &verifyCtx{reg: reg, verifier: verifier}

	sc := newScript(scriptText)
	for sc.hasNext() {
		index, line := sc.next()
		if grammar.Classify(line) == grammar.OpOr {
			xlog.Debug("entering OR block", map[string]interface{}{"line": index})
			if err := vc.verifyOr(sc, index); err != nil {
				return false, err
			}
			continue
		}
		xlog.Debug("dispatching statement", map[string]interface{}{"line": index, "text": line})
		if err := vc.dispatchStatement(index, line); err != nil {
			return false, err
		}
	}

	proof, err := r1cs.FromBytes(proofBytes)
	if err != nil {
		return false, fmt.Errorf("%w: %v", xerrors.Structural, err)
	}
	ok, err := verifier.Verify(proof)
	if err != nil {
		return false, err
	}
	if !ok {
		xlog.Warn("proof verification failed", map[string]interface{}{"label": cfg.Label})
	}
	return ok, nil
}

// bindWitnessCommitments groups the "C<name>-<k>" commitment lines back
// into per-witness-name WitnessEntry stubs (commitment handles only, no
// scalar values), so witnessVars/foldOperand can look a witness up by
// name the same way the prove side does.
func bindWitnessCommitments(reg *assignments.Assignments, lines []assignments.NameHex) error {
	grouped := map[string]map[int]r1cs.Variable{}
	for _, nh := range lines {
		if !strings.HasPrefix(nh.Name, "C") {
			continue
		}
		body := strings.TrimPrefix(nh.Name, "C")
		dash := strings.LastIndex(body, "-")
		if dash < 0 {
			return fmt.Errorf("%w: malformed witness commitment name %q", xerrors.Parse, nh.Name)
		}
		witnessName := body[:dash]
		block, err := assignments.ParseBlockIndex(nh.Name)
		if err != nil {
			return err
		}
		v, err := reg.GetCommitment(nh.Name)
		if err != nil {
			return err
		}
		if grouped[witnessName] == nil {
			grouped[witnessName] = map[int]r1cs.Variable{}
		}
		grouped[witnessName][block] = v
	}
	for name, blocks := range grouped {
		vars := make([]r1cs.Variable, len(blocks))
		for k, v := range blocks {
			vars[k] = v
		}
		reg.SetWitness(name, assignments.WitnessEntry{Vars: vars})
	}
	return nil
}

// verifyCtx bundles the state every per-statement verifier handler needs.
type verifyCtx struct {
	reg      *assignments.Assignments
	verifier *r1cs.Verifier
}

func (vc *verifyCtx) witnessVars(name string) ([]r1cs.Variable, error) {
	e, err := vc.reg.GetWitness(name)
	if err != nil {
		return nil, err
	}
	return e.Vars, nil
}

func (vc *verifyCtx) derivedVars(index, count int) ([]r1cs.Variable, error) {
	vars := make([]r1cs.Variable, count)
	for k := 0; k < count; k++ {
		v, err := vc.reg.GetCommitment(assignments.DerivedCommitmentName(index, 0, k))
		if err != nil {
			return nil, err
		}
		vars[k] = v
	}
	return vars, nil
}

func (vc *verifyCtx) dispatchStatement(index int, line string) error {
	stmt, err := grammar.ParseStatement(line)
	if err != nil {
		return err
	}
	switch st := stmt.(type) {
	case grammar.BoundStmt:
		return vc.verifyBound(index, st)
	case grammar.HashStmt:
		return vc.assembleHash(vc.verifier, st)
	case grammar.MerkleStmt:
		return vc.assembleMerkle(vc.verifier, st)
	case grammar.EqualityStmt:
		return vc.assembleEquality(vc.verifier, st)
	case grammar.UnequalStmt:
		return vc.verifyUnequal(index, st)
	case grammar.LessThanStmt:
		return vc.verifyLessThan(index, st)
	case grammar.SetMemberStmt:
		return vc.verifySetMember(index, st)
	default:
		return fmt.Errorf("%w: unsupported statement at line %d", xerrors.Parse, index)
	}
}

// hashImageLC mirrors prove.go's: the Image/Root operand is the target
// hash value itself, never re-folded.
func (vc *verifyCtx) hashImageLC(v grammar.Var) (r1cs.LinearCombination, error) {
	if v.Kind == grammar.VarWitness {
		vars, err := vc.witnessVars(v.Name)
		if err != nil {
			return r1cs.LinearCombination{}, err
		}
		if len(vars) != 1 {
			return r1cs.LinearCombination{}, fmt.Errorf("%w: witness var W%s is longer than 32 bytes", xerrors.Size, v.Name)
		}
		return r1cs.LC(vars[0]), nil
	}
	s, err := instanceScalarSingle(vc.reg, v)
	if err != nil {
		return r1cs.LinearCombination{}, err
	}
	return r1cs.LCConst(s), nil
}

func (vc *verifyCtx) assembleHash(cs r1cs.ConstraintSystem, st grammar.HashStmt) error {
	preimageVars, err := vc.witnessVars(st.Preimage.Name)
	if err != nil {
		return err
	}
	imageLC, err := vc.hashImageLC(st.Image)
	if err != nil {
		return err
	}
	g := gadgets.NewMimcHash256(imageLC)
	gadgets.Verify(g, cs, preimageVars, nil)
	return nil
}

func (vc *verifyCtx) assembleMerkle(cs r1cs.ConstraintSystem, st grammar.MerkleStmt) error {
	rootLC, err := vc.hashImageLC(st.Root)
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
		lc, err := foldOperand(cs, vc.reg, v, vc.witnessVars)
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
	gadgets.Verify(g, cs, nil, nil)
	return nil
}

func (vc *verifyCtx) assembleEquality(cs r1cs.ConstraintSystem, st grammar.EqualityStmt) error {
	leftVars, err := vc.witnessVars(st.Left.Name)
	if err != nil {
		return err
	}
	var right []r1cs.LinearCombination
	if st.Right.Kind == grammar.VarWitness {
		rv, err := vc.witnessVars(st.Right.Name)
		if err != nil {
			return err
		}
		right = lcsOfVars(rv)
	} else {
		right, err = instanceLCs(vc.reg, st.Right)
		if err != nil {
			return err
		}
	}
	g := gadgets.NewEquality(right)
	gadgets.Verify(g, cs, leftVars, nil)
	return nil
}

func (vc *verifyCtx) verifyBound(index int, st grammar.BoundStmt) error {
	valueVars, err := vc.witnessVars(st.Value.Name)
	if err != nil {
		return err
	}
	if len(valueVars) != 1 {
		return fmt.Errorf("%w: witness var W%s is longer than 32 bytes", xerrors.Size, st.Value.Name)
	}
	min, err := instanceScalarSingle(vc.reg, st.Min)
	if err != nil {
		return err
	}
	max, err := instanceScalarSingle(vc.reg, st.Max)
	if err != nil {
		return err
	}

	g := gadgets.NewBoundsCheck(min, max)
	vars, err := vc.derivedVars(index, g.DerivedCount())
	if err != nil {
		return err
	}
	gadgets.Verify(g, vc.verifier, valueVars, vars)
	return nil
}

func (vc *verifyCtx) verifyUnequal(index int, st grammar.UnequalStmt) error {
	leftVars, err := vc.witnessVars(st.Left.Name)
	if err != nil {
		return err
	}
	var rightLCs []r1cs.LinearCombination
	if st.Right.Kind == grammar.VarWitness {
		rv, err := vc.witnessVars(st.Right.Name)
		if err != nil {
			return err
		}
		rightLCs = lcsOfVars(rv)
	} else {
		rightLCs, err = instanceLCs(vc.reg, st.Right)
		if err != nil {
			return err
		}
	}
	if len(rightLCs) != len(leftVars) {
		return fmt.Errorf("%w: UNEQUAL block-count mismatch at line %d", xerrors.Structural, index)
	}

	g := gadgets.NewInequality(rightLCs, nil)
	vars, err := vc.derivedVars(index, g.DerivedCount())
	if err != nil {
		return err
	}
	gadgets.Verify(g, vc.verifier, leftVars, vars)
	return nil
}

func (vc *verifyCtx) verifyLessThan(index int, st grammar.LessThanStmt) error {
	leftVars, err := vc.witnessVars(st.Left.Name)
	if err != nil {
		return err
	}
	if len(leftVars) != 1 {
		return fmt.Errorf("%w: witness var W%s is longer than 32 bytes", xerrors.Size, st.Left.Name)
	}
	rightVars, err := vc.witnessVars(st.Right.Name)
	if err != nil {
		return err
	}
	if len(rightVars) != 1 {
		return fmt.Errorf("%w: witness var W%s is longer than 32 bytes", xerrors.Size, st.Right.Name)
	}

	g := gadgets.NewLessThan(gadgets.DefaultLessThanBits)
	vars, err := vc.derivedVars(index, g.DerivedCount())
	if err != nil {
		return err
	}
	gadgets.Verify(g, vc.verifier, []r1cs.Variable{leftVars[0], rightVars[0]}, vars)
	return nil
}

func (vc *verifyCtx) verifySetMember(index int, st grammar.SetMemberStmt) error {
	memberLC, err := foldOperand(vc.verifier, vc.reg, st.Member, vc.witnessVars)
	if err != nil {
		return err
	}
	setLCs := make([]r1cs.LinearCombination, len(st.Set))
	for i, v := range st.Set {
		lc, err := foldOperand(vc.verifier, vc.reg, v, vc.witnessVars)
		if err != nil {
			return err
		}
		setLCs[i] = lc
	}

	g := gadgets.NewSetMembership(memberLC, setLCs)
	vars, err := vc.derivedVars(index, g.DerivedCount())
	if err != nil {
		return err
	}
	gadgets.Verify(g, vc.verifier, nil, vars)
	return nil
}

// verifyOr mirrors proveOr: it builds every branch's residuals
// speculatively against a verifier-side Buffer, then calls OrReduce
// with selected = -1 (the verifier never learns which branch holds, so
// AllocateMultiplier(nil) allocates opaque placeholder wires the
// proof's gate proofs alone will justify), and finally replays the
// buffer's ops into the real Verifier.
func (vc *verifyCtx) verifyOr(sc *script, orIndex int) error {
	buf := r1cs.NewBuffer(false, vc.verifier.NumVars())

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
		if err := vc.dispatchOrBranch(buf, index, line); err != nil {
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
	if len(branches) == 0 {
		return fmt.Errorf("%w: empty OR block at line %d", xerrors.Structural, orIndex)
	}
	xlog.Debug("replaying OR block", map[string]interface{}{"line": orIndex, "branches": len(branches)})
	r1cs.OrReduce(buf, branches, -1)
	return buf.Replay(nil, vc.verifier)
}

func (vc *verifyCtx) dispatchOrBranch(cs r1cs.ConstraintSystem, index int, line string) error {
	stmt, err := grammar.ParseStatement(line)
	if err != nil {
		return err
	}
	switch st := stmt.(type) {
	case grammar.EqualityStmt:
		return vc.assembleEquality(cs, st)
	case grammar.HashStmt:
		return vc.assembleHash(cs, st)
	case grammar.MerkleStmt:
		return vc.assembleMerkle(cs, st)
	default:
		return fmt.Errorf("%w: statement at line %d is not supported inside an OR branch (only EQUALS, HASH, and MERKLE can be speculatively branched)", xerrors.Structural, index)
	}
}
