// Package grammar implements the tokenizer/parser for the per-line
// statement DSL (component G): BOUND/HASH/MERKLE/EQUALS/UNEQUAL/
// LESS_THAN/SET_MEMBER/OR plus the Merkle tree pattern body.
//
// Grounded on original_source/src/prove.rs's get_gadget_op dispatch and
// the gadget-specific *Parser.parse(line) calls it drives (the actual
// lalrpop grammar files were not part of the retrieved source, so the
// concrete tokenizer below is a hand-written recursive-descent parser
// over the same statement shapes, rather than a transliteration).
package grammar

import (
	"fmt"
	"strings"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
	"github.com/FairAds/bulletproof-gadgets/merkle"
)

// VarKind distinguishes a witness name from an instance name.
type VarKind int

const (
	VarWitness VarKind = iota
	VarInstance
)

// Var is one `Wi`/`Ij` terminal, with its prefix stripped from Name.
type Var struct {
	Kind VarKind
	Name string
}

func (v Var) String() string {
	if v.Kind == VarWitness {
		return "W" + v.Name
	}
	return "I" + v.Name
}

// ParseVar parses a single `Wi`/`Ij` token.
func ParseVar(tok string) (Var, error) {
	if len(tok) < 2 {
		return Var{}, fmt.Errorf("%w: malformed variable token %q", xerrors.Parse, tok)
	}
	switch tok[0] {
	case 'W':
		return Var{Kind: VarWitness, Name: tok[1:]}, nil
	case 'I':
		return Var{Kind: VarInstance, Name: tok[1:]}, nil
	default:
		return Var{}, fmt.Errorf("%w: variable token %q must start with W or I", xerrors.Parse, tok)
	}
}

// Op tags the keyword a statement line begins with.
type Op int

const (
	OpBound Op = iota
	OpHash
	OpMerkle
	OpEquals
	OpUnequal
	OpLessThan
	OpSetMember
	OpOr
	OpBlockEnd // a lone ";" inside an OR, separating branches
	OpArrayEnd // a lone "]" closing an OR
	OpUnknown
)

var keywords = map[string]Op{
	"BOUND":      OpBound,
	"HASH":       OpHash,
	"MERKLE":     OpMerkle,
	"EQUALS":     OpEquals,
	"UNEQUAL":    OpUnequal,
	"LESS_THAN":  OpLessThan,
	"SET_MEMBER": OpSetMember,
	"OR":         OpOr,
}

// Classify inspects a statement line's first token and reports which
// kind of statement it is, without fully parsing it.
func Classify(line string) Op {
	trimmed := strings.TrimSpace(line)
	if trimmed == ";" {
		return OpBlockEnd
	}
	if trimmed == "]" {
		return OpArrayEnd
	}
	first := strings.Fields(trimmed)
	if len(first) == 0 {
		return OpUnknown
	}
	op, ok := keywords[first[0]]
	if !ok {
		return OpUnknown
	}
	return op
}

// Statement is any one parsed statement line (not OR — the
// orchestrator handles OR's multi-line consumption directly, mirroring
// prove.rs's peekable-iterator recursion).
type Statement interface{ isStatement() }

// BoundStmt is `BOUND Wi Ij Ik`.
type BoundStmt struct {
	Value   Var
	Min, Max Var
}

func (BoundStmt) isStatement() {}

// HashStmt is `HASH X Wj`.
type HashStmt struct {
	Image    Var
	Preimage Var
}

func (HashStmt) isStatement() {}

// MerkleStmt is `MERKLE X (<tree>)`.
type MerkleStmt struct {
	Root    Var
	Pattern *merkle.Pattern
}

func (MerkleStmt) isStatement() {}

// EqualityStmt is `EQUALS Wi (Wj|Ij)`.
type EqualityStmt struct {
	Left, Right Var
}

func (EqualityStmt) isStatement() {}

// UnequalStmt is `UNEQUAL Wi (Wj|Ij)`.
type UnequalStmt struct {
	Left, Right Var
}

func (UnequalStmt) isStatement() {}

// LessThanStmt is `LESS_THAN Wi Wj`.
type LessThanStmt struct {
	Left, Right Var
}

func (LessThanStmt) isStatement() {}

// SetMemberStmt is `SET_MEMBER (W|I) (W|I) (W|I) …` — the first operand
// is the member, the rest are the set.
type SetMemberStmt struct {
	Member Var
	Set    []Var
}

func (SetMemberStmt) isStatement() {}
