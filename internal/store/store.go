// Package store contains the persistence layer for the booking engine.
// Each resource has an interface here and an in-memory implementation in
// memory.go. No business logic lives in this package — services own the
// rules and express atomic read-modify-write steps as closures.
//
// The engine is deliberately memory-resident and single-process: state
// lives for the lifetime of the hosting application and is lost on
// restart. The interfaces keep the service layer ignorant of that choice.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/FemiElu/movaa-park-api/internal/domain"
)

// TripFilter selects trips for List. Zero-valued fields match everything;
// set fields are ANDed together. Date matches the normalized calendar day.
type TripFilter struct {
	ParkID   string
	Date     *time.Time
	DriverID string
}

// AuditFilter selects audit entries for List. Zero-valued fields match
// everything; set fields are ANDed together.
type AuditFilter struct {
	EntityType string
	EntityID   string
}

// TripStore defines the persistence operations for trips.
//
// Update and UpdateAll run the mutate closure while holding the store's
// write lock, so a capacity check and the count increment it guards are
// one critical section — the in-process equivalent of a conditional
// update. If the closure returns an error nothing is committed; UpdateAll
// commits all trips or none.
type TripStore interface {
	// Create inserts the given trips as one atomic batch.
	Create(ctx context.Context, trips ...domain.Trip) error

	// Get retrieves a single trip. Returns domain.ErrNotFound if no trip
	// with that ID exists.
	Get(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns trips matching the filter, ordered by date then
	// departure time.
	List(ctx context.Context, f TripFilter) ([]domain.Trip, error)

	// ListBySeries returns every occurrence sharing the series ID,
	// ordered by date.
	ListBySeries(ctx context.Context, seriesID uuid.UUID) ([]domain.Trip, error)

	// Update applies mutate to the trip under the write lock and returns
	// the committed record. Returns domain.ErrNotFound if the trip does
	// not exist, or the closure's error (with nothing committed).
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Trip) error) (domain.Trip, error)

	// UpdateAll applies mutate to every listed trip atomically: the
	// closure runs against copies first and the batch commits only if
	// every call succeeds.
	UpdateAll(ctx context.Context, ids []uuid.UUID, mutate func(*domain.Trip) error) ([]domain.Trip, error)

	// UpdateScan applies mutate to the trip under the write lock, handing
	// the closure a snapshot of every other stored trip taken under that
	// same lock. Rules that must observe the rest of the registry before
	// writing (the driver-conflict check) get their scan and their write
	// as one critical section instead of a read followed by a separate
	// update. Returns domain.ErrNotFound if the trip does not exist, or
	// the closure's error with nothing committed.
	UpdateScan(ctx context.Context, id uuid.UUID, mutate func(t *domain.Trip, others []domain.Trip) error) (domain.Trip, error)
}

// BookingStore defines the persistence operations for bookings.
type BookingStore interface {
	// Create inserts a new booking.
	Create(ctx context.Context, b domain.Booking) error

	// Get retrieves a booking. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListByTrip returns a trip's bookings ordered by creation time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)

	// Update applies mutate to the booking under the write lock and
	// returns the committed record. Returns domain.ErrNotFound if the
	// booking does not exist, or the closure's error.
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Booking) error) (domain.Booking, error)

	// Delete removes the booking if guard approves of its current state,
	// all under the write lock. Returns domain.ErrNotFound if missing, or
	// the guard's error with the booking left in place. The guard closes
	// the race between a hold-release timer firing and a confirmation
	// landing first.
	Delete(ctx context.Context, id uuid.UUID, guard func(domain.Booking) error) error
}

// ParcelStore defines the persistence operations for parcels.
//
// Create runs the guard against the trip's current parcels while holding
// the write lock, so a cap check and the insert it protects are one
// critical section. A nil guard inserts unconditionally.
type ParcelStore interface {
	Create(ctx context.Context, p domain.Parcel, guard func(existing []domain.Parcel) error) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Parcel, error)
}

// AdjustmentStore defines the persistence operations for adjustments.
type AdjustmentStore interface {
	Create(ctx context.Context, a domain.Adjustment) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Adjustment, error)
}

// AuditStore is the append-only audit trail. Entries are never updated
// or deleted.
type AuditStore interface {
	// Append records one entry.
	Append(ctx context.Context, e domain.AuditEntry) error

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, f AuditFilter) ([]domain.AuditEntry, error)
}
