package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// BookingStatus is the lifecycle state of a booking.
// A booking is created pending (seat held, payment outstanding) and either
// transitions to confirmed or is removed entirely when its hold lapses.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRefunded  BookingStatus = "refunded"
)

// Contact is a name/phone pair used for both the passenger and their
// next of kin. Address is optional and only meaningful for passengers.
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Booking is one passenger's seat reservation on a trip.
//
// SeatNumber is assigned from the trip's reservation counter
// (ConfirmedBookingsCount + 1 at the moment of reservation). The counter
// is not a free-list: when a hold is released the freed capacity is
// reused by the next reservation, but the vacated numeric label is not
// tracked, so labels can repeat after out-of-order releases. Capacity
// accounting is exact; the label is informational.
type Booking struct {
	ID     uuid.UUID `json:"id"`
	TripID uuid.UUID `json:"trip_id"`

	Passenger Contact `json:"passenger"`
	NextOfKin Contact `json:"next_of_kin"`

	SeatNumber int   `json:"seat_number"`
	AmountPaid int64 `json:"amount_paid"` // kobo

	PaymentStatus PaymentStatus `json:"payment_status"`
	Status        BookingStatus `json:"status"`

	// HoldExpiresAt is set while the booking is pending and cleared on
	// confirmation. A pending booking past this instant can no longer be
	// confirmed even if its release timer has not fired yet.
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
	// HoldToken is returned to the client at reservation time for
	// reference during checkout. Cleared on confirmation.
	HoldToken string `json:"hold_token,omitempty"`

	CheckedIn bool      `json:"checked_in"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckInAllowed reports whether the booking may be checked in.
// Cancelled and refunded bookings are terminal for check-in purposes.
func (b Booking) CheckInAllowed() bool {
	return b.Status != BookingCancelled && b.Status != BookingRefunded
}
