package grammar

import (
	"fmt"
	"strings"

	"github.com/FairAds/bulletproof-gadgets/internal/xerrors"
	"github.com/FairAds/bulletproof-gadgets/merkle"
)

// ParseStatement parses one non-OR statement line into its typed form.
func ParseStatement(line string) (Statement, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty statement line", xerrors.Parse)
	}
	op, ok := keywords[fields[0]]
	if !ok {
		return nil, fmt.Errorf("%w: unknown gadget keyword %q", xerrors.Parse, fields[0])
	}
	args := fields[1:]

	switch op {
	case OpBound:
		vars, err := parseVars(args, 3)
		if err != nil {
			return nil, err
		}
		return BoundStmt{Value: vars[0], Min: vars[1], Max: vars[2]}, nil

	case OpHash:
		vars, err := parseVars(args, 2)
		if err != nil {
			return nil, err
		}
		return HashStmt{Image: vars[0], Preimage: vars[1]}, nil

	case OpMerkle:
		// Split parentheses into their own tokens so `(W1 I3)` and
		// `( W1 I3 )` parse alike.
		spaced := strings.NewReplacer("(", " ( ", ")", " ) ").Replace(strings.Join(args, " "))
		return parseMerkleStatement(strings.Fields(spaced))

	case OpEquals:
		vars, err := parseVars(args, 2)
		if err != nil {
			return nil, err
		}
		return EqualityStmt{Left: vars[0], Right: vars[1]}, nil

	case OpUnequal:
		vars, err := parseVars(args, 2)
		if err != nil {
			return nil, err
		}
		return UnequalStmt{Left: vars[0], Right: vars[1]}, nil

	case OpLessThan:
		vars, err := parseVars(args, 2)
		if err != nil {
			return nil, err
		}
		return LessThanStmt{Left: vars[0], Right: vars[1]}, nil

	case OpSetMember:
		if len(args) < 2 {
			return nil, fmt.Errorf("%w: SET_MEMBER requires a member and at least one set element", xerrors.Parse)
		}
		vars, err := parseVars(args, len(args))
		if err != nil {
			return nil, err
		}
		return SetMemberStmt{Member: vars[0], Set: vars[1:]}, nil

	default:
		return nil, fmt.Errorf("%w: %q is not a single-line statement", xerrors.Parse, fields[0])
	}
}

func parseVars(tokens []string, want int) ([]Var, error) {
	if len(tokens) != want {
		return nil, fmt.Errorf("%w: expected %d operands, got %d", xerrors.Parse, want, len(tokens))
	}
	out := make([]Var, len(tokens))
	for i, tok := range tokens {
		v, err := ParseVar(tok)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseMerkleStatement handles `MERKLE X ( <tree> )`: the root var
// followed by a fully-parenthesized tree body.
func parseMerkleStatement(args []string) (Statement, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: MERKLE requires a root variable and a tree body", xerrors.Parse)
	}
	root, err := ParseVar(args[0])
	if err != nil {
		return nil, err
	}
	pattern, rest, err := parseTree(args[1:])
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: unexpected trailing tokens after merkle tree body", xerrors.Parse)
	}
	return MerkleStmt{Root: root, Pattern: pattern}, nil
}

// parseTree parses one tree node, either a bare `Wi`/`Ij` leaf or a
// parenthesized pair `( <left> <right> )`, returning the unconsumed
// remainder of tokens.
func parseTree(tokens []string) (*merkle.Pattern, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("%w: unexpected end of merkle tree body", xerrors.Parse)
	}
	head := tokens[0]
	if head == "(" {
		left, rest, err := parseTree(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		right, rest2, err := parseTree(rest)
		if err != nil {
			return nil, nil, err
		}
		if len(rest2) == 0 || rest2[0] != ")" {
			return nil, nil, fmt.Errorf("%w: expected closing ')' in merkle tree body", xerrors.Parse)
		}
		return merkle.Node(left, right), rest2[1:], nil
	}

	v, err := ParseVar(head)
	if err != nil {
		return nil, nil, err
	}
	kind := merkle.LeafWitness
	if v.Kind == VarInstance {
		kind = merkle.LeafInstance
	}
	return merkle.Leaf(v.Name, kind), tokens[1:], nil
}
