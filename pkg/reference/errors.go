package reference

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every SyntaxError.
var ErrMalformed = errors.New("malformed port reference")

// ErrUnencodable is returned by Encode when an Info would not survive a round trip.
var ErrUnencodable = errors.New("port reference cannot be encoded")

// SyntaxError describes why a reference string was rejected.
type SyntaxError struct {
	Input  string // The rejected reference
	Reason string // Human-readable rule that failed
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformed, e.Input, e.Reason)
}

// Is lets errors.Is match ErrMalformed.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformed
}
