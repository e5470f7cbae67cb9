// Package assignments implements the named-variable registry
// (component H): instance/witness/commitment/derived-witness tables
// keyed by the names the statement script and Pedersen commitment
// lines use.
//
// Grounded on original_source/src/lalrpop/assignment_parser.rs's
// Assignments struct — same four tables, same C<i>-<k>/D<g>-<s>-<k>
// naming scheme — re-expressed with Go maps and explicit errors
// instead of Rust's expect()-or-panic style.
package assignments

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
	"github.com/FairAds/bulletproof-gadgets/pedersen"
	"github.com/FairAds/bulletproof-gadgets/r1cs"
	"github.com/FairAds/bulletproof-gadgets/scalar"
)

// WitnessEntry is everything the registry knows about one witness
// variable: its scalar blocks, their commitments, the constraint-system
// handles they were allocated under, and the original raw bytes.
type WitnessEntry struct {
	Scalars     []scalar.Element
	Commitments []pedersen.Point
	Vars        []r1cs.Variable
	Raw         []byte
}

// Assignments is the name → value/handle registry (component H).
type Assignments struct {
	instanceVars     map[string][]byte
	witnessVars      map[string]WitnessEntry
	commitments      map[string]r1cs.Variable
	derivedWitnesses []scalar.Element
}

// New creates an empty registry.
func New() *Assignments {
	return &Assignments{
		instanceVars: map[string][]byte{},
		witnessVars:  map[string]WitnessEntry{},
		commitments:  map[string]r1cs.Variable{},
	}
}

// SetInstance registers an instance variable's raw bytes under name
// (without its leading "I").
func (a *Assignments) SetInstance(name string, raw []byte) {
	a.instanceVars[name] = raw
}

// GetInstance looks up an instance variable. Lookup failure is fatal
// per spec.md §4.H ("Lookup failures are fatal"), surfaced as an error
// the orchestrator treats as unrecoverable.
func (a *Assignments) GetInstance(name string) ([]byte, error) {
	raw, ok := a.instanceVars[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing instance var I%s", xerrors.Name, name)
	}
	return raw, nil
}

// AssertInstanceSize32 is the assert_32 assertion: fatal if raw spans
// more than one 32-byte block.
func AssertInstanceSize32(name string, raw []byte) error {
	if len(raw) > scalar.Size {
		return fmt.Errorf("%w: instance var I%s is longer than 32 bytes", xerrors.Size, name)
	}
	return nil
}

// SetWitness registers a witness variable's full entry.
func (a *Assignments) SetWitness(name string, entry WitnessEntry) {
	a.witnessVars[name] = entry
}

// GetWitness looks up a witness variable's full entry.
func (a *Assignments) GetWitness(name string) (WitnessEntry, error) {
	entry, ok := a.witnessVars[name]
	if !ok {
		return WitnessEntry{}, fmt.Errorf("%w: missing witness var W%s", xerrors.Name, name)
	}
	return entry, nil
}

// AssertWitnessSize32 is the assert_witness_32 assertion: fatal if the
// witness spans more than one 32-byte block.
func AssertWitnessSize32(name string, entry WitnessEntry) error {
	if len(entry.Scalars) != 1 {
		return fmt.Errorf("%w: witness var W%s is longer than 32 bytes", xerrors.Size, name)
	}
	return nil
}

// SetCommitment registers a named commitment handle — used for both
// the C<i>-<k> witness-block names and the D<g>-<s>-<k> derived names.
func (a *Assignments) SetCommitment(name string, v r1cs.Variable) {
	a.commitments[name] = v
}

// GetCommitment looks up a commitment handle by its already-formatted
// C.../D... name.
func (a *Assignments) GetCommitment(name string) (r1cs.Variable, error) {
	v, ok := a.commitments[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing commitment %s", xerrors.Name, name)
	}
	return v, nil
}

// WitnessCommitmentName is the C<i>-<k> name for the k-th block of
// witness Wi.
func WitnessCommitmentName(witnessName string, block int) string {
	return fmt.Sprintf("C%s-%d", witnessName, block)
}

// DerivedCommitmentName is the D<g>-<s>-<k> name for the k-th block of
// the s-th derived commitment produced by the gadget at script line g.
func DerivedCommitmentName(gadgetLine, subroutine, block int) string {
	return fmt.Sprintf("D%d-%d-%d", gadgetLine, subroutine, block)
}

// GetAllWitnessCommitments returns every C<name>-<k> handle registered
// for witnessName, in block order.
func (a *Assignments) GetAllWitnessCommitments(witnessName string) []r1cs.Variable {
	var out []r1cs.Variable
	for i := 0; ; i++ {
		v, err := a.GetCommitment(WitnessCommitmentName(witnessName, i))
		if err != nil {
			break
		}
		out = append(out, v)
	}
	return out
}

// CacheDerivedWitnesses appends scalars (in order) to the ordered
// derived-witness list that DerivedWitnesses returns. The Prove and
// Verify orchestrators do not call it.
func (a *Assignments) CacheDerivedWitnesses(values []scalar.Element) {
	a.derivedWitnesses = append(a.derivedWitnesses, values...)
}

// DerivedWitnesses returns the ordered list of derived scalars produced
// so far.
func (a *Assignments) DerivedWitnesses() []scalar.Element {
	return append([]scalar.Element{}, a.derivedWitnesses...)
}

// WitnessNamesInInsertionOrder is unavailable on a Go map; callers that
// need a stable commit order must track insertion order themselves (the
// orchestrator does, via the order instance/witness lines were parsed).

// ParseInstanceText parses one `Ij = 0x<hex>` assignment per line.
func ParseInstanceText(text string) (map[string]string, error) {
	return parseAssignmentLines(text, "I")
}

// ParseWitnessText parses one `Wj = 0x<hex>` assignment per line.
func ParseWitnessText(text string) (map[string]string, error) {
	return parseAssignmentLines(text, "W")
}

// ParseCommitmentsText parses one `C.../D... = 0x<hex>` assignment per
// line, in the mixed namespace the .coms file uses.
func ParseCommitmentsText(text string) (map[string]string, error) {
	out := map[string]string{}
	for lineNo, line := range splitNonEmptyLines(text) {
		name, hex, err := splitAssignmentLine(line)
		if err != nil {
			return nil, fmt.Errorf("commitments line %d: %w", lineNo+1, err)
		}
		out[name] = hex
	}
	return out, nil
}

// NameHex is one name/hex pair, in the order it appeared in its source
// text — unlike the map-returning parsers above, order here is load
// bearing.
type NameHex struct {
	Name string
	Hex  string
}

// ParseWitnessOrdered parses `Wj = 0x<hex>` lines preserving file
// order. Witness commit order must match, within one Prove call,
// between the sequence of real Prover.Commit calls and the sequence of
// "Ci-k = 0x<hex>" lines appended to the .coms text — Go map iteration
// order is randomized, so that pairing can only be made by walking the
// parsed witness text itself in its original line order.
func ParseWitnessOrdered(text string) ([]NameHex, error) {
	return parseAssignmentLinesOrdered(text, "W")
}

// ParseCommitmentsOrdered parses `C.../D... = 0x<hex>` lines preserving
// file order. Verify must register every commitment with the verifier
// in the exact sequence the prover originally committed them in (since
// each Verifier.Commit call assigns the next sequential variable
// index), and the .coms text is written in that exact sequence, so
// Verify reconstructs it by walking the text in order rather than by
// sorting names.
func ParseCommitmentsOrdered(text string) ([]NameHex, error) {
	var out []NameHex
	for lineNo, line := range splitNonEmptyLines(text) {
		name, hex, err := splitAssignmentLine(line)
		if err != nil {
			return nil, fmt.Errorf("commitments line %d: %w", lineNo+1, err)
		}
		out = append(out, NameHex{Name: name, Hex: hex})
	}
	return out, nil
}

func parseAssignmentLinesOrdered(text, prefix string) ([]NameHex, error) {
	var out []NameHex
	for lineNo, line := range splitNonEmptyLines(text) {
		name, hex, err := splitAssignmentLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		if !strings.HasPrefix(name, prefix) {
			return nil, fmt.Errorf("%w: expected a %s-prefixed name, got %q", xerrors.Parse, prefix, name)
		}
		out = append(out, NameHex{Name: strings.TrimPrefix(name, prefix), Hex: hex})
	}
	return out, nil
}

func parseAssignmentLines(text, prefix string) (map[string]string, error) {
	out := map[string]string{}
	for lineNo, line := range splitNonEmptyLines(text) {
		name, hex, err := splitAssignmentLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		if !strings.HasPrefix(name, prefix) {
			return nil, fmt.Errorf("%w: expected a %s-prefixed name, got %q", xerrors.Parse, prefix, name)
		}
		out[strings.TrimPrefix(name, prefix)] = hex
	}
	return out, nil
}

func splitAssignmentLine(line string) (name, hexValue string, err error) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: malformed assignment %q", xerrors.Parse, line)
	}
	name = strings.TrimSpace(parts[0])
	val := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(val, "0x") {
		return "", "", fmt.Errorf("%w: value %q missing 0x prefix", xerrors.Parse, val)
	}
	return name, strings.TrimPrefix(val, "0x"), nil
}

func splitNonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseBlockIndex parses the trailing "-<k>" suffix convention used by
// both commitment namespaces, returning k.
func ParseBlockIndex(name string) (int, error) {
	idx := strings.LastIndex(name, "-")
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q has no block index", xerrors.Parse, name)
	}
	return strconv.Atoi(name[idx+1:])
}
