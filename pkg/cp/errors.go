package cp

import "errors"

// Engine errors.
//
// ErrInconsistent is the only recoverable error: it is returned when a domain
// would become empty or a constraint detects infeasibility, and it is absorbed
// by the nearest search choice point. Every other error is a model or
// programming error and is propagated to the caller unchanged.
var (
	ErrInconsistent      = errors.New("inconsistent")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrOverflow          = errors.New("integer overflow")
	ErrObjectiveNotFixed = errors.New("objective variable not fixed at solution")
	ErrEmptyDomain       = errors.New("empty initial domain")
)

// IsInconsistent reports whether err is (or wraps) the inconsistency signal.
func IsInconsistent(err error) bool {
	return errors.Is(err, ErrInconsistent)
}
