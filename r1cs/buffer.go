package r1cs

import (
	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// OpKind tags one deferred operation recorded by a Buffer.
type OpKind int

const (
	OpCommit OpKind = iota
	OpCommitPoints
	OpMultiply
	OpAllocateMultiplier
	OpConstrain
)

// Op is one deferred constraint-system operation. Only the fields
// relevant to Kind are populated.
type Op struct {
	Kind OpKind

	CommitRaw    []byte           // OpCommit (prover buffers)
	CommitPoints []pedersen.Point // OpCommitPoints (verifier buffers)

	Left, Right LinearCombination    // OpMultiply
	Assignment  *[2]scalar.Element   // OpAllocateMultiplier (prover buffers only)
	LC          LinearCombination    // OpConstrain

	Vars []Variable // the variable handles this op produced; Rewind uses their count to restore the counter, Replay does not read them
}

// Buffer is the deferred constraint-system ("component F"): it records
// Commit/Multiply/AllocateMultiplier/Constrain calls instead of
// executing them immediately, so an OR conjunction can speculatively
// build several branches and discard all but the combined result.
// Buffer exists in the same two colours as Prover/Verifier — set
// isProver accordingly — but exposes the identical ConstraintSystem
// vocabulary so gadgets don't need to know whether they are writing
// into a live CS or a deferred one.
type Buffer struct {
	isProver bool
	next     Variable
	ops      []Op
	cache    []int // stack of snapshot lengths (len(ops) at each open scope)

	shadow map[Variable]scalar.Element  // prover-side values for variables this buffer itself allocated
	below  func(Variable) scalar.Element // resolves a variable index allocated before this buffer (base..), nil on verifier buffers
}

// NewBuffer creates a buffer whose variable numbering continues from
// base (the target constraint system's current variable count), so
// that once replayed, the real CS assigns the exact same indices the
// buffer already handed out to gadgets.
func NewBuffer(isProver bool, base int) *Buffer {
	b := &Buffer{isProver: isProver, next: Variable(base)}
	if isProver {
		b.shadow = map[Variable]scalar.Element{}
	}
	return b
}

// SetLookup installs the function a prover-side buffer uses to resolve
// the value of a variable it did not itself allocate (one committed
// directly to the real Prover below this buffer's base, e.g. a witness
// block or an eagerly-committed derived witness). Needed so the
// orchestrator can evaluate an OR branch's residuals — which freely mix
// buffer-local and real-prover variables — to determine which branch
// is actually satisfied before calling OrReduce.
func (b *Buffer) SetLookup(f func(Variable) scalar.Element) {
	b.below = f
}

// Eval evaluates lc against this buffer's own shadow values, falling
// back to below for variables allocated outside it. Prover-side only;
// a verifier buffer never knows real values.
func (b *Buffer) Eval(lc LinearCombination) scalar.Element {
	var sum scalar.Element
	for _, t := range lc.Terms {
		v := b.valueOf(t.Variable)
		var term scalar.Element
		term.Mul(&t.Coeff, &v)
		sum.Add(&sum, &term)
	}
	return sum
}

func (b *Buffer) valueOf(v Variable) scalar.Element {
	if v == ConstantOne {
		one := scalar.Element{}
		one.SetOne()
		return one
	}
	if val, ok := b.shadow[v]; ok {
		return val
	}
	if b.below != nil {
		return b.below(v)
	}
	return scalar.Element{}
}

func (b *Buffer) alloc(n int) []Variable {
	vars := make([]Variable, n)
	for i := 0; i < n; i++ {
		vars[i] = b.next
		b.next++
	}
	return vars
}

// Commit defers a prover-side commit of raw bytes, returning the
// variable handles the blocks will occupy once replayed.
func (b *Buffer) Commit(raw []byte) ([]Variable, error) {
	blocks, err := scalar.BEToScalars(raw)
	if err != nil {
		return nil, err
	}
	vars := b.alloc(len(blocks))
	b.ops = append(b.ops, Op{Kind: OpCommit, CommitRaw: raw, Vars: vars})
	if b.isProver {
		for i, v := range vars {
			b.shadow[v] = blocks[i]
		}
	}
	return vars, nil
}

// CommitPoints defers a verifier-side registration of already-known
// commitment points.
func (b *Buffer) CommitPoints(points []pedersen.Point) []Variable {
	vars := b.alloc(len(points))
	b.ops = append(b.ops, Op{Kind: OpCommitPoints, CommitPoints: points, Vars: vars})
	return vars
}

// Multiply implements ConstraintSystem over the deferred buffer.
func (b *Buffer) Multiply(l, r LinearCombination) (Variable, Variable, Variable) {
	vars := b.alloc(3)
	b.ops = append(b.ops, Op{Kind: OpMultiply, Left: l, Right: r, Vars: vars})
	if b.isProver {
		lv, rv := b.Eval(l), b.Eval(r)
		var ov scalar.Element
		ov.Mul(&lv, &rv)
		b.shadow[vars[0]] = lv
		b.shadow[vars[1]] = rv
		b.shadow[vars[2]] = ov
	}
	return vars[0], vars[1], vars[2]
}

// AllocateMultiplier implements ConstraintSystem over the deferred buffer.
func (b *Buffer) AllocateMultiplier(assignment *[2]scalar.Element) (Variable, Variable, Variable) {
	vars := b.alloc(3)
	b.ops = append(b.ops, Op{Kind: OpAllocateMultiplier, Assignment: assignment, Vars: vars})
	if b.isProver && assignment != nil {
		var ov scalar.Element
		ov.Mul(&assignment[0], &assignment[1])
		b.shadow[vars[0]] = assignment[0]
		b.shadow[vars[1]] = assignment[1]
		b.shadow[vars[2]] = ov
	}
	return vars[0], vars[1], vars[2]
}

// Constrain implements ConstraintSystem over the deferred buffer.
func (b *Buffer) Constrain(lc LinearCombination) {
	b.ops = append(b.ops, Op{Kind: OpConstrain, LC: lc})
}

// Ops returns the buffer's current op list (buffer()).
func (b *Buffer) Ops() []Op { return b.ops }

// Snapshot pushes the current op-list length as a rewind point,
// entering a nested scope (an OR branch).
func (b *Buffer) Snapshot() {
	b.cache = append(b.cache, len(b.ops))
}

// Rewind drops every op appended since the last Snapshot and restores
// the variable counter to what it was at that point, discarding a
// failed OR branch.
func (b *Buffer) Rewind() {
	n := len(b.cache)
	if n == 0 {
		return
	}
	mark := b.cache[n-1]
	b.cache = b.cache[:n-1]
	dropped := b.ops[mark:]
	b.ops = b.ops[:mark]
	for _, op := range dropped {
		b.next -= Variable(len(op.Vars))
	}
}

// TakeSinceSnapshot pops the last Snapshot mark and returns every op
// appended since it, leaving the variable counter untouched (unlike
// Rewind). An OR branch's statements are built directly against the
// enclosing buffer so each branch's Multiply/AllocateMultiplier calls
// land in the same monotonic variable range as everything else; once
// the branch is done, the orchestrator lifts its ops back out with
// this method, keeps the variable-allocating ones (by re-appending
// them) and pulls its Constrain ops aside as residuals for OrReduce,
// rather than ever letting them reach the real constraint system as
// unconditional equalities.
func (b *Buffer) TakeSinceSnapshot() []Op {
	n := len(b.cache)
	if n == 0 {
		return nil
	}
	mark := b.cache[n-1]
	b.cache = b.cache[:n-1]
	taken := append([]Op(nil), b.ops[mark:]...)
	b.ops = b.ops[:mark]
	return taken
}

// KeepOps re-appends ops directly onto the buffer's op list without
// allocating new variables (their Vars were already handed out when
// they were first recorded). The OR orchestrator uses this to put back
// every op a branch produced except the OpConstrain ones, which it
// collects as residuals instead.
func (b *Buffer) KeepOps(ops []Op) {
	b.ops = append(b.ops, ops...)
}

// Replay replays every recorded op, in order, into a real
// ConstraintSystem-and-commit-capable target. prover is used when
// isProver is true (ops carry raw bytes / assignments); otherwise
// verifier is used (ops carry points only).
func (b *Buffer) Replay(prover *Prover, verifier *Verifier) error {
	for _, op := range b.ops {
		switch op.Kind {
		case OpCommit:
			if prover == nil {
				continue
			}
			if _, _, err := prover.Commit(op.CommitRaw); err != nil {
				return err
			}
		case OpCommitPoints:
			if verifier == nil {
				continue
			}
			for _, pt := range op.CommitPoints {
				verifier.Commit(pt)
			}
		case OpMultiply:
			if prover != nil {
				prover.Multiply(op.Left, op.Right)
			} else {
				verifier.Multiply(op.Left, op.Right)
			}
		case OpAllocateMultiplier:
			if prover != nil {
				prover.AllocateMultiplier(op.Assignment)
			} else {
				verifier.AllocateMultiplier(nil)
			}
		case OpConstrain:
			if prover != nil {
				prover.Constrain(op.LC)
			} else {
				verifier.Constrain(op.LC)
			}
		}
	}
	return nil
}
