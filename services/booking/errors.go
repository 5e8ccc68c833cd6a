package booking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	// ErrInvalidState is returned when mutating a booking whose state does not accept the action.
	ErrInvalidState = errors.New("invalid booking state")
	ErrConflict     = errors.New("conflict")

	ErrServiceUnavailable   = fmt.Errorf("%w: service not found or inactive", ErrNotFound)
	ErrEstimatorUnavailable = errors.New("quote estimator is not configured")
)

// ConflictError is a lost race for a slot or for capacity. Reason is safe
// to show to the caller.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

var (
	ErrSlotTaken          = &ConflictError{Reason: "This time slot is no longer available"}
	ErrDayCapacityReached = &ConflictError{Reason: "Maximum bookings reached for this day"}
	ErrInsufficientStock  = &ConflictError{Reason: "Not enough material stock for this booking"}
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
