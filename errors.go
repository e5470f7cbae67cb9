package bulletproofgadgets

import "github.com/FairAds/bulletproof-gadgets/internal/xerrors"

// The four fatal error kinds from the error-handling design: every
// non-proof-failure error returned by Prove/Verify wraps one of these,
// so callers can classify with errors.Is(err, bulletproofgadgets.ErrParse)
// and so on. Proof failure is not an error: Verify returns (false, nil)
// when the script's statements are not satisfied.
var (
	ErrParse      = xerrors.Parse
	ErrName       = xerrors.Name
	ErrSize       = xerrors.Size
	ErrStructural = xerrors.Structural
)
