package dedup

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a required value that is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStateConflict marks a transition attempted on a pair that is no
	// longer in the expected state. Callers should refresh and retry.
	ErrStateConflict = errors.New("duplicate pair state conflict")

	// ErrIncompleteMergeDecision marks a combined decision on a field that
	// cannot be combined and has no custom value.
	ErrIncompleteMergeDecision = errors.New("incomplete merge decision")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
