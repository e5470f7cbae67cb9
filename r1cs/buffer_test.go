package r1cs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

func TestBufferReplayMatchesDirectProve(t *testing.T) {
	gens := pedersen.DefaultGens()

	prover := NewProver(gens, NewTranscript("buffer-label"))
	buf := NewBuffer(true, prover.NumVars())

	five := scalarOf(5)
	vars, err := buf.Commit(scalar.ScalarToBE(&five))
	require.NoError(t, err)
	_, _, oVar := buf.Multiply(LC(vars[0]), LCConst(scalarOf(2)))
	buf.Constrain(LC(oVar).Sub(LCConst(scalarOf(10))))

	require.NoError(t, buf.Replay(prover, nil))

	proof, err := prover.Prove()
	require.NoError(t, err)
	require.Len(t, proof.Commitments, 4) // 1 commit + 3 from the multiply gate
}

func TestBufferSnapshotRewindDropsOps(t *testing.T) {
	buf := NewBuffer(true, 1)

	buf.Snapshot()
	_, err := buf.Commit(make([]byte, 32))
	require.NoError(t, err)
	buf.Multiply(LC(ConstantOne), LC(ConstantOne))
	require.Len(t, buf.Ops(), 2)

	buf.Rewind()
	require.Empty(t, buf.Ops())
}

func TestBufferRewindRestoresVariableCounter(t *testing.T) {
	buf := NewBuffer(true, 1)
	buf.Snapshot()
	vars, err := buf.Commit(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, Variable(1), vars[0])
	buf.Rewind()

	vars2, err := buf.Commit(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, Variable(1), vars2[0])
}

func TestBufferTakeSinceSnapshotLeavesVariableCounterAdvanced(t *testing.T) {
	buf := NewBuffer(true, 1)
	_, err := buf.Commit(make([]byte, 32)) // one var outside any branch
	require.NoError(t, err)

	buf.Snapshot()
	vars, err := buf.Commit(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, Variable(2), vars[0])
	buf.Multiply(LC(ConstantOne), LC(ConstantOne))
	buf.Constrain(LC(vars[0]))

	branchOps := buf.TakeSinceSnapshot()
	require.Len(t, branchOps, 3)
	require.Len(t, buf.Ops(), 1) // branch ops lifted back out; only the pre-branch commit remains

	// The orchestrator re-appends every non-Constrain op and pulls
	// Constrain ops aside as OR residuals instead of dropping them.
	var residuals int
	for _, op := range branchOps {
		if op.Kind == OpConstrain {
			residuals++
			continue
		}
		buf.ops = append(buf.ops, op)
	}
	require.Equal(t, 1, residuals)
	require.Len(t, buf.Ops(), 3)

	// A second branch starting fresh continues from the same advanced
	// counter: TakeSinceSnapshot never rewinds next, so branches never
	// alias each other's variable indices.
	buf.Snapshot()
	vars2, err := buf.Commit(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, Variable(6), vars2[0])
}
