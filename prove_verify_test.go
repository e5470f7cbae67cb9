package bulletproofgadgets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FairAds/bulletproof-gadgets/mimc"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

func testConfig(label string) Config {
	return Config{Label: label}
}

// TestProveVerifyBoundRoundTrip exercises the simplest single-statement
// script: a BOUND check over one witness against two instance bounds.
func TestProveVerifyBoundRoundTrip(t *testing.T) {
	instanceText := fmt.Sprintf("I1 = 0x%s\nI2 = 0x%s\n", scalar.NumHexEncode(18), scalar.NumHexEncode(120))
	witnessText := fmt.Sprintf("W1 = 0x%s\n", scalar.NumHexEncode(34))
	scriptText := "BOUND W1 I1 I2\n"

	cfg := testConfig("bound-roundtrip")
	proof, coms, err := Prove(cfg, instanceText, witnessText, scriptText)
	require.NoError(t, err)
	require.NotEmpty(t, proof)
	require.NotEmpty(t, coms)

	ok, err := Verify(cfg, instanceText, coms, scriptText, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestProveVerifyBoundOutOfRangeFails confirms an out-of-bound witness
// still yields a proof (Prove does not check satisfaction) but that
// Verify rejects it.
func TestProveVerifyBoundOutOfRangeFails(t *testing.T) {
	instanceText := fmt.Sprintf("I1 = 0x%s\nI2 = 0x%s\n", scalar.NumHexEncode(18), scalar.NumHexEncode(120))
	witnessText := fmt.Sprintf("W1 = 0x%s\n", scalar.NumHexEncode(5))
	scriptText := "BOUND W1 I1 I2\n"

	cfg := testConfig("bound-out-of-range")
	proof, coms, err := Prove(cfg, instanceText, witnessText, scriptText)
	require.NoError(t, err)

	ok, err := Verify(cfg, instanceText, coms, scriptText, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestProveVerifyHashAndEquals chains two statements sharing the same
// witness: a HASH binding a committed preimage to a public image, and
// an EQUALS tying a second witness to an instance constant.
func TestProveVerifyHashAndEquals(t *testing.T) {
	preimage := scalar.NumHexEncode(42)
	raw, err := scalar.HexToBytes(preimage)
	require.NoError(t, err)
	blocks, err := scalar.BEToScalars(raw)
	require.NoError(t, err)
	image := mimc.Hash(blocks)

	instanceText := fmt.Sprintf("I1 = 0x%s\nI2 = 0x%s\n", scalar.ScalarToHex(&image), scalar.NumHexEncode(7))
	witnessText := fmt.Sprintf("W1 = 0x%s\nW2 = 0x%s\n", preimage, scalar.NumHexEncode(7))
	scriptText := "HASH I1 W1\nEQUALS W2 I2\n"

	cfg := testConfig("hash-equals")
	proof, coms, err := Prove(cfg, instanceText, witnessText, scriptText)
	require.NoError(t, err)

	ok, err := Verify(cfg, instanceText, coms, scriptText, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestProveVerifyOrBlockSelectsSatisfiedBranch exercises an OR block
// with two EQUALS branches, only the second of which the witness
// satisfies.
func TestProveVerifyOrBlockSelectsSatisfiedBranch(t *testing.T) {
	instanceText := fmt.Sprintf("I1 = 0x%s\nI2 = 0x%s\n", scalar.NumHexEncode(1), scalar.NumHexEncode(2))
	witnessText := fmt.Sprintf("W1 = 0x%s\n", scalar.NumHexEncode(2))
	scriptText := "OR [\nEQUALS W1 I1\n;\nEQUALS W1 I2\n]\n"

	cfg := testConfig("or-block")
	proof, coms, err := Prove(cfg, instanceText, witnessText, scriptText)
	require.NoError(t, err)

	ok, err := Verify(cfg, instanceText, coms, scriptText, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestProveRejectsOrBlockWithNoSatisfiedBranch confirms Prove itself
// refuses to produce a proof when no OR branch is satisfied.
func TestProveRejectsOrBlockWithNoSatisfiedBranch(t *testing.T) {
	instanceText := fmt.Sprintf("I1 = 0x%s\nI2 = 0x%s\n", scalar.NumHexEncode(1), scalar.NumHexEncode(2))
	witnessText := fmt.Sprintf("W1 = 0x%s\n", scalar.NumHexEncode(99))
	scriptText := "OR [\nEQUALS W1 I1\n;\nEQUALS W1 I2\n]\n"

	_, _, err := Prove(testConfig("or-block-unsatisfied"), instanceText, witnessText, scriptText)
	require.Error(t, err)
}

// TestProveVerifyMismatchedLabelFails confirms the transcript label is
// load bearing: Verify called with a different Label than Prove used
// must not pass, since the Fiat-Shamir challenges it derives diverge.
func TestProveVerifyMismatchedLabelFails(t *testing.T) {
	instanceText := fmt.Sprintf("I1 = 0x%s\nI2 = 0x%s\n", scalar.NumHexEncode(18), scalar.NumHexEncode(120))
	witnessText := fmt.Sprintf("W1 = 0x%s\n", scalar.NumHexEncode(34))
	scriptText := "BOUND W1 I1 I2\n"

	proof, coms, err := Prove(testConfig("label-a"), instanceText, witnessText, scriptText)
	require.NoError(t, err)

	ok, err := Verify(testConfig("label-b"), instanceText, coms, scriptText, proof)
	if err == nil {
		require.False(t, ok)
	}
}
