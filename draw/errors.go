package draw

import "errors"

// ErrInsufficientInput is matched by every InsufficientInputError.
var ErrInsufficientInput = errors.New("insufficient input for draw generation")

// InsufficientInputError reports why a draw could not be generated.
// Nothing from a failed call should be persisted.
type InsufficientInputError struct {
	Reason string
}

func (e *InsufficientInputError) Error() string {
	return "insufficient input for draw generation: " + e.Reason
}

// Is lets errors.Is(err, ErrInsufficientInput) match.
func (e *InsufficientInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}

func insufficient(reason string) error {
	return &InsufficientInputError{Reason: reason}
}
