// Package gadgets implements the eight individual gadgets (component
// E) over the Gadget contract (component D): preprocess derives
// auxiliary witnesses from the real ones, assemble emits constraints
// identically on the prover and verifier sides.
//
// Grounded on original_source/src/merkle_root_hash/merkle_root_hash_gadget.rs's
// Gadget trait shape (preprocess/assemble plus the setup/prove/verify
// wrappers) and the per-gadget dispatch in src/prove.rs / src/verify.rs.
// Unlike the Rust trait, Assemble here never needs scalar values — this
// module's ConstraintSystem.Multiply evaluates its own operands from
// the variables it already tracks, so every gadget's circuit is
// expressed purely in terms of Variables/LinearCombinations; see
// DESIGN.md for why the Option<Scalar> half of the Rust derived-witness
// pairs was dropped.
package gadgets

import (
	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Gadget is the shared contract every statement-script gadget
// implements.
type Gadget interface {
	// Preprocess derives any auxiliary witness scalars the gadget's
	// circuit needs beyond the caller-supplied witnesses (e.g. bit
	// decompositions, inverses, selector vectors). Called only on the
	// prover side.
	Preprocess(witnesses []scalar.Element) []scalar.Element
	// Assemble emits the gadget's constraints over cs, given the
	// variable handles for its primary inputs and its derived
	// witnesses (in the same order Preprocess returned them).
	Assemble(cs r1cs.ConstraintSystem, inputs []r1cs.Variable, derived []r1cs.Variable)
	// DerivedCount returns len(Preprocess(...)) without needing real
	// witness values: every gadget's derived-witness count depends only
	// on structural parameters (bit width, block count, set size) fixed
	// at construction time, never on the witness values themselves. The
	// verifier, which never calls Preprocess, uses this to know how many
	// D<g>-<s>-<k> commitment lines to read back for a gadget.
	DerivedCount() int
}

// Setup is the prover-side wrapper: it runs Preprocess, Pedersen-commits
// each derived scalar, and returns the resulting commitments (for the
// D<g>-<s>-<k> commitment lines) and their variable handles.
func Setup(g Gadget, prover *r1cs.Prover, witnesses []scalar.Element) ([]pedersen.Point, []r1cs.Variable) {
	derivedScalars := g.Preprocess(witnesses)
	coms := make([]pedersen.Point, 0, len(derivedScalars))
	vars := make([]r1cs.Variable, 0, len(derivedScalars))
	for _, s := range derivedScalars {
		opening, v := prover.CommitScalar(s)
		coms = append(coms, opening.Commitment)
		vars = append(vars, v)
	}
	return coms, vars
}

// Prove emits g's constraints into cs (a Prover or a deferred Buffer).
func Prove(g Gadget, cs r1cs.ConstraintSystem, inputs, derived []r1cs.Variable) {
	g.Assemble(cs, inputs, derived)
}

// Verify emits g's constraints into cs (a Verifier or a deferred
// Buffer) using the derived-witness variable handles the verifier
// reconstructed from the commitments text, exactly mirroring Prove.
func Verify(g Gadget, cs r1cs.ConstraintSystem, inputs, derived []r1cs.Variable) {
	g.Assemble(cs, inputs, derived)
}
