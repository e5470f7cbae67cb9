package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeafNamesDFSPreOrder(t *testing.T) {
	// ((W1,W2),(I1,W3))
	tree := Node(
		Node(Leaf("W1", LeafWitness), Leaf("W2", LeafWitness)),
		Node(Leaf("I1", LeafInstance), Leaf("W3", LeafWitness)),
	)
	names := tree.LeafNames()
	require.Equal(t, []LeafRef{
		{Name: "W1", Kind: LeafWitness},
		{Name: "W2", Kind: LeafWitness},
		{Name: "I1", Kind: LeafInstance},
		{Name: "W3", Kind: LeafWitness},
	}, names)
}

func TestEvaluateComputesRootFromLeafSequence(t *testing.T) {
	tree := Node(
		Leaf("W1", LeafWitness),
		Node(Leaf("W2", LeafWitness), Leaf("I1", LeafInstance)),
	)
	values := []int{1, 2, 3}
	i := 0
	next := func() (int, error) {
		v := values[i]
		i++
		return v, nil
	}
	eval := Evaluator[int]{Hash: func(l, r int) int { return l + r }}
	root, err := eval.Evaluate(tree, next)
	require.NoError(t, err)
	require.Equal(t, 1+(2+3), root)
}

func TestEvaluateRejectsNilPattern(t *testing.T) {
	eval := Evaluator[int]{Hash: func(l, r int) int { return l + r }}
	_, err := eval.Evaluate(nil, func() (int, error) { return 0, nil })
	require.Error(t, err)
}
