// Package domain contains the core data types for the Movaa park booking
// engine. This package has no dependencies beyond uuid and is imported by
// every other internal package (store, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
// Transitions: draft → published → live → completed, with cancelled
// reachable from any non-terminal state. Only draft → published is
// driven by this engine; the later transitions belong to external
// scheduling.
type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPublished TripStatus = "published"
	TripStatusLive      TripStatus = "live"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusDraft, TripStatusPublished, TripStatusLive,
		TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// PayoutStatus tracks whether the driver/park revenue split for a trip
// has been scheduled or paid out.
type PayoutStatus string

const (
	PayoutNotScheduled PayoutStatus = "not_scheduled"
	PayoutScheduled    PayoutStatus = "scheduled"
	PayoutPaid         PayoutStatus = "paid"
)

// MaxSeatCount is the hard ceiling on seats per trip.
const MaxSeatCount = 50

// Trip represents one scheduled vehicle departure on a route/date/time.
// A trip is the top-level aggregate; bookings and parcels belong to a trip.
//
// ConfirmedBookingsCount includes pending holds: a held seat is already
// unavailable to other passengers, so the count is incremented at
// reservation time and only decremented when a hold lapses unconfirmed.
// The invariant 0 <= ConfirmedBookingsCount <= SeatCount holds at all times.
type Trip struct {
	ID            uuid.UUID `json:"id"`
	ParkID        string    `json:"park_id"`
	RouteID       string    `json:"route_id"`
	Date          time.Time `json:"date"`           // calendar day, midnight UTC
	DepartureTime string    `json:"departure_time"` // "15:04"

	SeatCount              int `json:"seat_count"`
	ConfirmedBookingsCount int `json:"confirmed_bookings_count"`
	MaxParcels             int `json:"max_parcels"`

	DriverID    string `json:"driver_id,omitempty"`
	DriverPhone string `json:"driver_phone,omitempty"`

	Price        int64        `json:"price"` // per seat, in kobo
	Status       TripStatus   `json:"status"`
	PayoutStatus PayoutStatus `json:"payout_status"`

	Recurring bool               `json:"recurring"`
	Pattern   *RecurrencePattern `json:"pattern,omitempty"` // immutable once attached
	SeriesID  *uuid.UUID         `json:"series_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bookable reports whether seats on the trip can currently be reserved.
// Only published and live trips accept reservations.
func (t Trip) Bookable() bool {
	return t.Status == TripStatusPublished || t.Status == TripStatusLive
}

// SeatsRemaining returns the number of seats still open for reservation.
func (t Trip) SeatsRemaining() int {
	return t.SeatCount - t.ConfirmedBookingsCount
}

// DateOnly truncates t to midnight UTC. All trip dates are stored in this
// normalized form so same-day comparisons are exact equality checks.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
