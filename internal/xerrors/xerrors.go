// Package xerrors declares the fatal error kinds shared across every
// bulletproof-gadgets package, so callers anywhere in the module tree
// can classify a failure with errors.Is without each leaf package
// defining its own sentinels.
package xerrors

import "errors"

var (
	// Parse marks a malformed statement, unknown keyword, or bad hex
	// literal encountered while tokenizing/parsing the statement DSL.
	Parse = errors.New("parse error")

	// Name marks a reference to an undefined W../I../C../D.. name in
	// the assignment registry.
	Name = errors.New("name error")

	// Size marks a witness expected to fit one 32-byte scalar block
	// that does not.
	Size = errors.New("size violation")

	// Structural marks a Merkle pattern/leaf count mismatch or other
	// shape inconsistency between a gadget's declared inputs and the
	// values supplied.
	Structural = errors.New("structural error")
)
