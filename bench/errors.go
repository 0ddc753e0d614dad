package bench

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks caller mistakes: non-positive row counts,
// unparseable numbers, unknown tables or strategies.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsInvalidArgument reports whether err was caused by bad input.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
