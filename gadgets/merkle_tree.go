package gadgets

import (
	"github.com/FairAds/bulletproof-gadgets/merkle"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// MerkleTree256 constrains a Pattern tree's computed root to equal
// Root, building an in-circuit MiMC-hash chain at every internal node.
// Leaves are supplied already hashed: witness leaves via an implicit
// MimcHash256 sub-circuit the orchestrator wires in before calling this
// gadget, instance leaves via their native (out-of-circuit, since
// public) MiMC hash folded into a constant linear combination.
type MerkleTree256 struct {
	Root           r1cs.LinearCombination
	InstanceLeaves []r1cs.LinearCombination // DFS order, instance leaves only
	WitnessLeaves  []r1cs.LinearCombination // DFS order, witness leaves only (already-hashed images)
	Pattern        *merkle.Pattern
}

// NewMerkleTree256 builds a MerkleTree256 gadget.
func NewMerkleTree256(root r1cs.LinearCombination, instanceLeaves, witnessLeaves []r1cs.LinearCombination, pattern *merkle.Pattern) *MerkleTree256 {
	return &MerkleTree256{Root: root, InstanceLeaves: instanceLeaves, WitnessLeaves: witnessLeaves, Pattern: pattern}
}

// Preprocess derives no auxiliary witnesses — every internal hash is
// computed live inside Assemble via fresh Multiply gates.
func (g *MerkleTree256) Preprocess(_ []scalar.Element) []scalar.Element { return nil }

// DerivedCount is always 0.
func (g *MerkleTree256) DerivedCount() int { return 0 }

// Assemble walks Pattern in DFS order, combining leaf linear
// combinations pairwise via the in-circuit MiMC sponge, and constrains
// the computed root to equal Root.
func (g *MerkleTree256) Assemble(cs r1cs.ConstraintSystem, _ []r1cs.Variable, _ []r1cs.Variable) {
	refs := g.Pattern.LeafNames()
	leaves := make([]r1cs.LinearCombination, len(refs))
	wi, ii := 0, 0
	for i, ref := range refs {
		if ref.Kind == merkle.LeafWitness {
			leaves[i] = g.WitnessLeaves[wi]
			wi++
		} else {
			leaves[i] = g.InstanceLeaves[ii]
			ii++
		}
	}

	idx := 0
	next := func() (r1cs.LinearCombination, error) {
		v := leaves[idx]
		idx++
		return v, nil
	}
	eval := merkle.Evaluator[r1cs.LinearCombination]{
		Hash: func(l, r r1cs.LinearCombination) r1cs.LinearCombination {
			return mimcSpongeCircuit(cs, []r1cs.LinearCombination{l, r})
		},
	}
	root, err := eval.Evaluate(g.Pattern, next)
	if err != nil {
		panic(err) // a malformed pattern is a structural error, not a proof failure
	}
	cs.Constrain(g.Root.Sub(root))
}
