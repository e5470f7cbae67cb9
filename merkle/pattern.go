// Package merkle implements the Pattern tree shape spec.md §3 defines
// for the MerkleTree256 and MerkleRootHash gadgets: a binary tree whose
// leaves are W|I terminals and whose internal nodes are Hash(left,
// right), evaluated by consuming an ordered witness and instance leaf
// sequence in left-to-right depth-first order.
//
// Grounded on original_source/src/merkle_root_hash/merkle_root.rs's
// recursive tree-walk shape, re-expressed as a Go tagged union (a kind
// tag plus the fields relevant to that kind, rather than an enum).
package merkle

import (
	"fmt"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
)

// LeafKind distinguishes a witness terminal from an instance terminal.
type LeafKind int

const (
	LeafWitness LeafKind = iota
	LeafInstance
)

// Kind tags a Pattern node.
type Kind int

const (
	KindLeaf Kind = iota
	KindNode
)

// Pattern is one node of a Merkle tree shape: either a leaf terminal
// (Leaf set, referencing a W|I name) or an internal node (Left/Right
// set, the hash of its two children).
type Pattern struct {
	Kind Kind

	LeafName string
	LeafKind LeafKind

	Left, Right *Pattern
}

// Leaf builds a leaf Pattern node naming a witness or instance variable.
func Leaf(name string, kind LeafKind) *Pattern {
	return &Pattern{Kind: KindLeaf, LeafName: name, LeafKind: kind}
}

// Node builds an internal Pattern node over two children.
func Node(left, right *Pattern) *Pattern {
	return &Pattern{Kind: KindNode, Left: left, Right: right}
}

// LeafNames walks the pattern in DFS pre-order (left then right) and
// returns every leaf's name and kind in consumption order, matching
// spec.md §3's invariant 4 ("caller must supply leaves in DFS pre-order
// L-then-R").
func (p *Pattern) LeafNames() []LeafRef {
	if p == nil {
		return nil
	}
	var out []LeafRef
	p.walk(&out)
	return out
}

// LeafRef names one leaf terminal by its consumption position.
type LeafRef struct {
	Name string
	Kind LeafKind
}

func (p *Pattern) walk(out *[]LeafRef) {
	switch p.Kind {
	case KindLeaf:
		*out = append(*out, LeafRef{Name: p.LeafName, Kind: p.LeafKind})
	case KindNode:
		p.Left.walk(out)
		p.Right.walk(out)
	}
}

// Evaluator drives the DFS evaluation of a Pattern against a Hash
// function supplied by the caller (the gadget layer, which knows
// whether it is running MiMC natively or emitting an R1CS sub-circuit
// for it). Evaluate consumes exactly one value per leaf, in DFS
// pre-order, and returns the root value.
type Evaluator[T any] struct {
	// Hash combines a pair of child values into their parent's value.
	Hash func(left, right T) T
}

// Evaluate walks pattern, pulling leaf values from leaves (consumed
// left-to-right, one per call) via next, and returns the computed root.
func (e Evaluator[T]) Evaluate(pattern *Pattern, next func() (T, error)) (T, error) {
	var zero T
	if pattern == nil {
		return zero, fmt.Errorf("%w: nil merkle pattern", xerrors.Structural)
	}
	switch pattern.Kind {
	case KindLeaf:
		return next()
	case KindNode:
		left, err := e.Evaluate(pattern.Left, next)
		if err != nil {
			return zero, err
		}
		right, err := e.Evaluate(pattern.Right, next)
		if err != nil {
			return zero, err
		}
		return e.Hash(left, right), nil
	default:
		return zero, fmt.Errorf("%w: unknown merkle pattern kind %d", xerrors.Structural, pattern.Kind)
	}
}
