package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors returned by store and service functions. Services wrap
// them with operation context via fmt.Errorf("service.X.Op: %w", err);
// handlers match with errors.Is and map each to an HTTP status.
var (
	// ErrNotFound: the referenced trip or booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation: input violates a business rule (seat ceiling,
	// missing recurrence pattern, malformed departure time, ...).
	ErrValidation = errors.New("validation error")

	// ErrCapacity: the seat count would drop below currently confirmed
	// bookings, or no seats remain at reservation time.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrImmutableField: a price change was attempted while confirmed
	// bookings exist.
	ErrImmutableField = errors.New("immutable field")

	// ErrTripNotBookable: a reservation was attempted against a trip
	// that is not published or live.
	ErrTripNotBookable = errors.New("trip not bookable")

	// ErrHoldExpired: a confirmation arrived after the hold window lapsed.
	ErrHoldExpired = errors.New("hold expired")

	// ErrDriverConflict: the driver is already committed to another trip
	// on the same date. Returned wrapped in a DriverConflictError that
	// carries the conflicting trip id.
	ErrDriverConflict = errors.New("driver conflict")

	// ErrInvalidState: the operation is not valid for the entity's
	// current state (e.g. check-in on a cancelled booking, publishing a
	// trip that is not a draft).
	ErrInvalidState = errors.New("invalid state")
)

// DriverConflictError reports a rejected driver assignment. It carries
// the trip the driver is already committed to so callers can surface it.
// errors.Is(err, ErrDriverConflict) matches through Unwrap.
type DriverConflictError struct {
	DriverID          string
	ConflictingTripID uuid.UUID
}

func (e DriverConflictError) Error() string {
	return fmt.Sprintf("driver %s already assigned to trip %s on the same date", e.DriverID, e.ConflictingTripID)
}

func (e DriverConflictError) Unwrap() error { return ErrDriverConflict }
