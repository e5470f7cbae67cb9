package gadgets

import (
	"github.com/FairAds/bulletproof-gadgets/merkle"
	"github.com/FairAds/bulletproof-gadgets/mimc"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// MerkleRootHash computes the Pattern tree's root natively (outside the
// circuit, as a single derived witness) and constrains it to equal
// Root — used in place of MerkleTree256 when the full per-node hash
// chain does not need to be exposed as intermediate circuit outputs.
// Grounded directly on
// original_source/src/merkle_root_hash/merkle_root_hash_gadget.rs,
// whose assemble() likewise only constrains the derived witness against
// the provided root, trusting preprocess's native computation rather
// than re-deriving the root inside the circuit.
type MerkleRootHash struct {
	Root         r1cs.LinearCombination
	InstanceVars []scalar.Element // DFS order, already-hashed instance leaves
	Pattern      *merkle.Pattern
}

// NewMerkleRootHash builds a MerkleRootHash gadget.
func NewMerkleRootHash(root r1cs.LinearCombination, instanceVars []scalar.Element, pattern *merkle.Pattern) *MerkleRootHash {
	return &MerkleRootHash{Root: root, InstanceVars: instanceVars, Pattern: pattern}
}

// Preprocess computes the tree's root natively from the already-hashed
// witness leaves (passed in DFS witness order) and the gadget's own
// already-hashed instance leaves.
func (g *MerkleRootHash) Preprocess(witnesses []scalar.Element) []scalar.Element {
	refs := g.Pattern.LeafNames()
	leaves := make([]scalar.Element, len(refs))
	wi, ii := 0, 0
	for i, ref := range refs {
		if ref.Kind == merkle.LeafWitness {
			leaves[i] = witnesses[wi]
			wi++
		} else {
			leaves[i] = g.InstanceVars[ii]
			ii++
		}
	}

	idx := 0
	next := func() (scalar.Element, error) {
		v := leaves[idx]
		idx++
		return v, nil
	}
	eval := merkle.Evaluator[scalar.Element]{
		Hash: func(l, r scalar.Element) scalar.Element {
			return mimc.Hash([]scalar.Element{l, r})
		},
	}
	root, err := eval.Evaluate(g.Pattern, next)
	if err != nil {
		panic(err)
	}
	return []scalar.Element{root}
}

// DerivedCount is always 1: the natively computed root.
func (g *MerkleRootHash) DerivedCount() int { return 1 }

// Assemble constrains the single derived root witness to equal Root.
func (g *MerkleRootHash) Assemble(cs r1cs.ConstraintSystem, _ []r1cs.Variable, derived []r1cs.Variable) {
	cs.Constrain(g.Root.Sub(r1cs.LC(derived[0])))
}
