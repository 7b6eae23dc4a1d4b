package l2res

import "github.com/pkg/errors"

var (
	ErrUnknownEra      = errors.New("unknown era")
	ErrUnknownTriggers = errors.New("unknown trigger suite")
	// ErrFitFailed marks a bin whose asymmetry could not be fitted. The bin
	// is left out of the results.
	ErrFitFailed = errors.New("gaussian fit failed")
)
