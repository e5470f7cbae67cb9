package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FairAds/bulletproof-gadgets/merkle"
)

func TestParseVarDistinguishesWitnessFromInstance(t *testing.T) {
	w, err := ParseVar("W3")
	require.NoError(t, err)
	require.Equal(t, Var{Kind: VarWitness, Name: "3"}, w)
	require.Equal(t, "W3", w.String())

	i, err := ParseVar("I7")
	require.NoError(t, err)
	require.Equal(t, Var{Kind: VarInstance, Name: "7"}, i)
	require.Equal(t, "I7", i.String())
}

func TestParseVarRejectsBadToken(t *testing.T) {
	_, err := ParseVar("X1")
	require.Error(t, err)

	_, err = ParseVar("W")
	require.Error(t, err)
}

func TestClassifyDetectsKeywordsAndDelimiters(t *testing.T) {
	require.Equal(t, OpBound, Classify("BOUND W1 I1 I2"))
	require.Equal(t, OpHash, Classify("HASH I1 W1"))
	require.Equal(t, OpMerkle, Classify("MERKLE I1 ( W1 W2 )"))
	require.Equal(t, OpEquals, Classify("EQUALS W1 I1"))
	require.Equal(t, OpUnequal, Classify("UNEQUAL W1 I1"))
	require.Equal(t, OpLessThan, Classify("LESS_THAN W1 W2"))
	require.Equal(t, OpSetMember, Classify("SET_MEMBER W1 I1 I2"))
	require.Equal(t, OpOr, Classify("OR"))
	require.Equal(t, OpBlockEnd, Classify(" ; "))
	require.Equal(t, OpArrayEnd, Classify("]"))
	require.Equal(t, OpUnknown, Classify("GARBAGE"))
	require.Equal(t, OpUnknown, Classify(""))
}

func TestParseStatementBound(t *testing.T) {
	stmt, err := ParseStatement("BOUND W1 I1 I2")
	require.NoError(t, err)
	require.Equal(t, BoundStmt{
		Value: Var{Kind: VarWitness, Name: "1"},
		Min:   Var{Kind: VarInstance, Name: "1"},
		Max:   Var{Kind: VarInstance, Name: "2"},
	}, stmt)
}

func TestParseStatementHash(t *testing.T) {
	stmt, err := ParseStatement("HASH I1 W1")
	require.NoError(t, err)
	require.Equal(t, HashStmt{
		Image:    Var{Kind: VarInstance, Name: "1"},
		Preimage: Var{Kind: VarWitness, Name: "1"},
	}, stmt)
}

func TestParseStatementEqualsUnequalLessThan(t *testing.T) {
	eq, err := ParseStatement("EQUALS W1 I1")
	require.NoError(t, err)
	require.Equal(t, EqualityStmt{Left: Var{Kind: VarWitness, Name: "1"}, Right: Var{Kind: VarInstance, Name: "1"}}, eq)

	neq, err := ParseStatement("UNEQUAL W1 W2")
	require.NoError(t, err)
	require.Equal(t, UnequalStmt{Left: Var{Kind: VarWitness, Name: "1"}, Right: Var{Kind: VarWitness, Name: "2"}}, neq)

	lt, err := ParseStatement("LESS_THAN W1 W2")
	require.NoError(t, err)
	require.Equal(t, LessThanStmt{Left: Var{Kind: VarWitness, Name: "1"}, Right: Var{Kind: VarWitness, Name: "2"}}, lt)
}

func TestParseStatementSetMember(t *testing.T) {
	stmt, err := ParseStatement("SET_MEMBER W1 I1 I2 I3")
	require.NoError(t, err)
	sm, ok := stmt.(SetMemberStmt)
	require.True(t, ok)
	require.Equal(t, Var{Kind: VarWitness, Name: "1"}, sm.Member)
	require.Len(t, sm.Set, 3)
}

func TestParseStatementSetMemberRejectsTooFewOperands(t *testing.T) {
	_, err := ParseStatement("SET_MEMBER W1")
	require.Error(t, err)
}

func TestParseStatementRejectsWrongOperandCount(t *testing.T) {
	_, err := ParseStatement("BOUND W1 I1")
	require.Error(t, err)
}

func TestParseStatementRejectsUnknownKeyword(t *testing.T) {
	_, err := ParseStatement("FROB W1 W2")
	require.Error(t, err)
}

func TestParseStatementRejectsEmptyLine(t *testing.T) {
	_, err := ParseStatement("")
	require.Error(t, err)
}

func TestParseStatementMerkleLeaf(t *testing.T) {
	stmt, err := ParseStatement("MERKLE I1 W1")
	require.NoError(t, err)
	m, ok := stmt.(MerkleStmt)
	require.True(t, ok)
	require.Equal(t, Var{Kind: VarInstance, Name: "1"}, m.Root)
	require.Equal(t, merkle.KindLeaf, m.Pattern.Kind)
	require.Equal(t, "1", m.Pattern.LeafName)
	require.Equal(t, merkle.LeafWitness, m.Pattern.LeafKind)
}

func TestParseStatementMerkleNestedTree(t *testing.T) {
	stmt, err := ParseStatement("MERKLE I9 ( ( W1 W2 ) ( I1 W3 ) )")
	require.NoError(t, err)
	m, ok := stmt.(MerkleStmt)
	require.True(t, ok)

	refs := m.Pattern.LeafNames()
	require.Len(t, refs, 4)
	require.Equal(t, "1", refs[0].Name)
	require.Equal(t, merkle.LeafWitness, refs[0].Kind)
	require.Equal(t, "2", refs[1].Name)
	require.Equal(t, "1", refs[2].Name)
	require.Equal(t, merkle.LeafInstance, refs[2].Kind)
	require.Equal(t, "3", refs[3].Name)
}

func TestParseStatementMerkleRejectsUnbalancedParens(t *testing.T) {
	_, err := ParseStatement("MERKLE I1 ( W1 W2")
	require.Error(t, err)
}

func TestParseStatementMerkleRejectsTrailingTokens(t *testing.T) {
	_, err := ParseStatement("MERKLE I1 ( W1 W2 ) W3")
	require.Error(t, err)
}
