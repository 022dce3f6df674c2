package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrFamilyComputation marks a family that could not produce values for
	// the given image, mask and settings. It is recorded, never fatal.
	ErrFamilyComputation = errors.New("family computation failed")

	// ErrCancelled is returned by Run when the context was cancelled at a
	// checkpoint between families. The store holds every family completed so
	// far.
	ErrCancelled = errors.New("run cancelled")

	// ErrInvalidInput is returned when image or mask is missing
	ErrInvalidInput = errors.New("invalid input")
)

// FamilyError is the data-level failure of one family
type FamilyError struct {
	Family string
	Stage  string
	Err    error
}

func (e *FamilyError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Family, e.Stage, e.Err)
}

func (e *FamilyError) Unwrap() error { return e.Err }

// Is makes every FamilyError match ErrFamilyComputation
func (e *FamilyError) Is(target error) bool {
	return target == ErrFamilyComputation
}
