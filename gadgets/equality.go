package gadgets

import (
	"fmt"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// Equality asserts a witness variable equals another variable or
// instance scalar, block-by-block.
type Equality struct {
	Right []r1cs.LinearCombination
}

// NewEquality builds an Equality gadget against right, one linear
// combination per 32-byte block.
func NewEquality(right []r1cs.LinearCombination) *Equality {
	return &Equality{Right: right}
}

// Preprocess derives no auxiliary witnesses.
func (g *Equality) Preprocess(_ []scalar.Element) []scalar.Element { return nil }

// DerivedCount is always 0.
func (g *Equality) DerivedCount() int { return 0 }

// Assemble constrains left[i] == Right[i] for every block.
func (g *Equality) Assemble(cs r1cs.ConstraintSystem, inputs []r1cs.Variable, _ []r1cs.Variable) {
	if len(inputs) != len(g.Right) {
		panic(fmt.Sprintf("%v: equality gadget block count mismatch: %d vs %d", xerrors.Structural, len(inputs), len(g.Right)))
	}
	for i, v := range inputs {
		cs.Constrain(r1cs.LC(v).Sub(g.Right[i]))
	}
}
