package elevator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when a passenger's origin and
	// destination are the same floor.
	ErrInvalidRequest = errors.New("origin and destination must differ")

	// ErrFloorOutOfRange is returned when a requested floor is outside the
	// building.
	ErrFloorOutOfRange = errors.New("floor outside the building's range")

	// ErrBoardingDenied is returned when the car is at capacity.
	ErrBoardingDenied = errors.New("elevator is full")

	// ErrDoorsClosed is returned when a passenger tries to board or alight
	// while the doors are closed.
	ErrDoorsClosed = errors.New("elevator doors are closed")

	// ErrFloorMismatch is returned when a passenger tries to board or
	// alight at the wrong floor.
	ErrFloorMismatch = errors.New("elevator is on another floor")

	// ErrPassengerNotFound is returned when alighting a passenger that is
	// not in the car.
	ErrPassengerNotFound = errors.New("passenger not found in the elevator")
)

// InvariantError indicates a logic defect: the car reached a state its
// invariants forbid. Advance aborts the step and surfaces it rather than
// continuing with inconsistent state.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("elevator invariant violated: %s", e.Reason)
}

func invariantViolation(format string, args ...any) error {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}
