package r1cs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

func scalarOf(n uint64) scalar.Element {
	var e scalar.Element
	e.SetUint64(n)
	return e
}

func TestProveVerifyRoundTripMultiplication(t *testing.T) {
	gens := pedersen.DefaultGens()

	prover := NewProver(gens, NewTranscript("test-label"))
	_, aVars, err := prover.Commit(scalar.ScalarToBE(ref(scalarOf(6))))
	require.NoError(t, err)
	_, bVars, err := prover.Commit(scalar.ScalarToBE(ref(scalarOf(7))))
	require.NoError(t, err)

	// 6*7 == 42
	_, _, oVar := prover.Multiply(LC(aVars[0]), LC(bVars[0]))
	forty2 := scalarOf(42)
	prover.Constrain(LC(oVar).Sub(LCConst(forty2)))

	proof, err := prover.Prove()
	require.NoError(t, err)

	verifier := NewVerifier(gens, NewTranscript("test-label"))
	aVar := verifier.Commit(proof.Commitments[0])
	bVar := verifier.Commit(proof.Commitments[1])
	_, _, vOVar := verifier.Multiply(LC(aVar), LC(bVar))
	verifier.Constrain(LC(vOVar).Sub(LCConst(forty2)))

	ok, err := verifier.Verify(proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProveVerifyRejectsWrongProduct(t *testing.T) {
	gens := pedersen.DefaultGens()

	prover := NewProver(gens, NewTranscript("test-label"))
	_, aVars, err := prover.Commit(scalar.ScalarToBE(ref(scalarOf(6))))
	require.NoError(t, err)
	_, bVars, err := prover.Commit(scalar.ScalarToBE(ref(scalarOf(7))))
	require.NoError(t, err)
	_, _, oVar := prover.Multiply(LC(aVars[0]), LC(bVars[0]))
	// the script itself asserts the wrong product (43, not the real 42):
	// both sides must walk the same statement for the proof shape to
	// line up, so the mismatch is caught by the constraint-opening check
	// rather than a structural error.
	prover.Constrain(LC(oVar).Sub(LCConst(scalarOf(43))))

	proof, err := prover.Prove()
	require.NoError(t, err)

	verifier := NewVerifier(gens, NewTranscript("test-label"))
	aVar := verifier.Commit(proof.Commitments[0])
	bVar := verifier.Commit(proof.Commitments[1])
	_, _, vOVar := verifier.Multiply(LC(aVar), LC(bVar))
	verifier.Constrain(LC(vOVar).Sub(LCConst(scalarOf(43))))

	ok, err := verifier.Verify(proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProofBytesRoundTrip(t *testing.T) {
	gens := pedersen.DefaultGens()
	prover := NewProver(gens, NewTranscript("test-label"))
	_, aVars, err := prover.Commit(scalar.ScalarToBE(ref(scalarOf(3))))
	require.NoError(t, err)
	prover.Constrain(LC(aVars[0]).Sub(LCConst(scalarOf(3))))

	proof, err := prover.Prove()
	require.NoError(t, err)

	raw := proof.ToBytes()
	decoded, err := FromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, proof.GeneratorCount, decoded.GeneratorCount)
	require.Equal(t, len(proof.Commitments), len(decoded.Commitments))
	require.Equal(t, len(proof.ConstraintOpenings), len(decoded.ConstraintOpenings))
	require.Equal(t, len(proof.GateProofs), len(decoded.GateProofs))
	require.True(t, decoded.Commitments[0].Equal(&proof.Commitments[0]))
}

func TestNextPow2(t *testing.T) {
	require.Equal(t, 1, NextPow2(0))
	require.Equal(t, 1, NextPow2(1))
	require.Equal(t, 2, NextPow2(2))
	require.Equal(t, 4, NextPow2(3))
	require.Equal(t, 4, NextPow2(4))
	require.Equal(t, 8, NextPow2(5))
	require.Equal(t, 16, NextPow2(16))
}

func ref(e scalar.Element) *scalar.Element { return &e }
