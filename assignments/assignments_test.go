package assignments

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

func TestInstanceSetGetRoundTrip(t *testing.T) {
	a := New()
	a.SetInstance("1", []byte{0x01, 0x02})

	raw, err := a.GetInstance("1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, raw)
}

func TestGetInstanceMissingIsFatal(t *testing.T) {
	a := New()
	_, err := a.GetInstance("9")
	require.Error(t, err)
}

func TestAssertInstanceSize32RejectsOversize(t *testing.T) {
	raw := make([]byte, 33)
	require.Error(t, AssertInstanceSize32("1", raw))
	require.NoError(t, AssertInstanceSize32("1", raw[:32]))
}

func TestWitnessSetGetRoundTrip(t *testing.T) {
	a := New()
	var v scalar.Element
	v.SetUint64(42)
	entry := WitnessEntry{Scalars: []scalar.Element{v}, Vars: []r1cs.Variable{3}}
	a.SetWitness("1", entry)

	got, err := a.GetWitness("1")
	require.NoError(t, err)
	require.Equal(t, entry, got)
}

func TestAssertWitnessSize32RejectsMultiBlock(t *testing.T) {
	entry := WitnessEntry{Scalars: []scalar.Element{{}, {}}}
	require.Error(t, AssertWitnessSize32("1", entry))

	single := WitnessEntry{Scalars: []scalar.Element{{}}}
	require.NoError(t, AssertWitnessSize32("1", single))
}

func TestWitnessCommitmentNamingScheme(t *testing.T) {
	require.Equal(t, "C1-0", WitnessCommitmentName("1", 0))
	require.Equal(t, "C12-3", WitnessCommitmentName("12", 3))
}

func TestDerivedCommitmentNamingScheme(t *testing.T) {
	require.Equal(t, "D4-0-1", DerivedCommitmentName(4, 0, 1))
}

func TestGetAllWitnessCommitmentsStopsAtFirstGap(t *testing.T) {
	a := New()
	a.SetCommitment(WitnessCommitmentName("1", 0), r1cs.Variable(1))
	a.SetCommitment(WitnessCommitmentName("1", 1), r1cs.Variable(2))
	a.SetCommitment(WitnessCommitmentName("1", 3), r1cs.Variable(99)) // gap at index 2

	vars := a.GetAllWitnessCommitments("1")
	require.Equal(t, []r1cs.Variable{1, 2}, vars)
}

func TestCacheDerivedWitnessesAccumulates(t *testing.T) {
	a := New()
	var x, y scalar.Element
	x.SetUint64(1)
	y.SetUint64(2)
	a.CacheDerivedWitnesses([]scalar.Element{x})
	a.CacheDerivedWitnesses([]scalar.Element{y})

	require.Equal(t, []scalar.Element{x, y}, a.DerivedWitnesses())
}

func TestParseInstanceTextParsesPrefixedLines(t *testing.T) {
	text := "I1 = 0xdeadbeef\nI2 = 0x00\n"
	got, err := ParseInstanceText(text)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"1": "deadbeef", "2": "00"}, got)
}

func TestParseInstanceTextRejectsWrongPrefix(t *testing.T) {
	_, err := ParseInstanceText("W1 = 0xff\n")
	require.Error(t, err)
}

func TestParseWitnessTextParsesPrefixedLines(t *testing.T) {
	got, err := ParseWitnessText("W3 = 0x1234\n")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"3": "1234"}, got)
}

func TestParseCommitmentsTextParsesMixedNamespace(t *testing.T) {
	text := "C1-0 = 0xaa\nD2-0-0 = 0xbb\n"
	got, err := ParseCommitmentsText(text)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"C1-0": "aa", "D2-0-0": "bb"}, got)
}

func TestSplitAssignmentLineRejectsMissingHexPrefix(t *testing.T) {
	_, _, err := splitAssignmentLine("I1 = 42")
	require.Error(t, err)
}

func TestSplitAssignmentLineRejectsMalformed(t *testing.T) {
	_, _, err := splitAssignmentLine("not an assignment")
	require.Error(t, err)
}

func TestSplitNonEmptyLinesSkipsBlankLines(t *testing.T) {
	lines := splitNonEmptyLines("a\n\nb\r\n\nc\n")
	require.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestParseBlockIndex(t *testing.T) {
	idx, err := ParseBlockIndex("C1-2")
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	idx, err = ParseBlockIndex("D4-0-1")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	_, err = ParseBlockIndex("noblockindex")
	require.Error(t, err)
}
