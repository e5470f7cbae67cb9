package gadgets

import (
	"github.com/FairAds/bulletproof-gadgets/mimc"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// MimcHash256 asserts MiMC-sponge(preimage) == image, where preimage is
// one or more 32-byte witness blocks and image is a witness or instance
// scalar. Unlike the bit-decomposition gadgets, its circuit needs no
// Preprocess-derived witnesses: every intermediate sponge value is a
// fresh ConstraintSystem.Multiply result, whose value the prover side
// already knows how to evaluate from the variables it tracks.
type MimcHash256 struct {
	Image r1cs.LinearCombination
}

// NewMimcHash256 builds a MimcHash256 gadget against image.
func NewMimcHash256(image r1cs.LinearCombination) *MimcHash256 {
	return &MimcHash256{Image: image}
}

// Preprocess derives no auxiliary witnesses.
func (g *MimcHash256) Preprocess(_ []scalar.Element) []scalar.Element { return nil }

// DerivedCount is always 0.
func (g *MimcHash256) DerivedCount() int { return 0 }

// Assemble builds the in-circuit MiMC sponge over inputs and constrains
// it to equal Image.
func (g *MimcHash256) Assemble(cs r1cs.ConstraintSystem, inputs []r1cs.Variable, _ []r1cs.Variable) {
	blocks := make([]r1cs.LinearCombination, len(inputs))
	for i, v := range inputs {
		blocks[i] = r1cs.LC(v)
	}
	out := mimcSpongeCircuit(cs, blocks)
	cs.Constrain(g.Image.Sub(out))
}

// HashCircuit exposes mimcSpongeCircuit to the orchestrator, which
// needs it to fold a multi-block witness value (a SET_MEMBER operand,
// or a MERKLE witness leaf) down to the single scalar the member/leaf
// gadgets expect, without duplicating the sponge trace.
func HashCircuit(cs r1cs.ConstraintSystem, blocks []r1cs.LinearCombination) r1cs.LinearCombination {
	return mimcSpongeCircuit(cs, blocks)
}

// mimcSpongeCircuit builds the in-circuit trace of mimc.Hash: absorb
// each block additively into the running state, permuting (keyed by
// zero) after every absorption.
func mimcSpongeCircuit(cs r1cs.ConstraintSystem, blocks []r1cs.LinearCombination) r1cs.LinearCombination {
	zero := scalar.Element{}
	key := r1cs.LCConst(zero)

	var state r1cs.LinearCombination = r1cs.LCConst(zero)
	for _, b := range blocks {
		state = state.Add(b)
		state = mimcPermuteCircuit(cs, state, key)
	}
	return state
}

// mimcPermuteCircuit builds the in-circuit trace of mimc.Permute: for
// every round constant, square-square-multiply to compute the x^5
// S-box over state+key+c, then add key back at the end.
func mimcPermuteCircuit(cs r1cs.ConstraintSystem, state, key r1cs.LinearCombination) r1cs.LinearCombination {
	x := state
	for _, c := range mimc.RoundConstants {
		t := x.Add(key).Add(r1cs.LCConst(c))
		_, _, x2Var := cs.Multiply(t, t)
		_, _, x4Var := cs.Multiply(r1cs.LC(x2Var), r1cs.LC(x2Var))
		_, _, x5Var := cs.Multiply(r1cs.LC(x4Var), t)
		x = r1cs.LC(x5Var)
	}
	return x.Add(key)
}
