// Package service contains the business logic for the park booking engine.
// Services validate inputs, enforce business rules, and orchestrate store
// calls. No storage details live here — services depend on store
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FemiElu/movaa-park-api/internal/clock"
	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// UpdateScope selects which occurrences of a series a trip update applies to.
type UpdateScope string

const (
	// ScopeOccurrence updates only the addressed trip.
	ScopeOccurrence UpdateScope = "occurrence"
	// ScopeFuture updates the addressed trip and every later occurrence
	// in its series.
	ScopeFuture UpdateScope = "future"
	// ScopeSeries updates every occurrence in the series.
	ScopeSeries UpdateScope = "series"
)

// CreateTripInput is the plain data accepted for trip creation.
type CreateTripInput struct {
	ParkID        string
	RouteID       string
	Date          time.Time
	DepartureTime string // "15:04"
	SeatCount     int
	MaxParcels    int
	Price         int64 // kobo per seat
	Status        domain.TripStatus
	Recurring     bool
	Pattern       *domain.RecurrencePattern
}

// TripUpdate carries the mutable trip fields. Nil pointers leave the
// field unchanged.
type TripUpdate struct {
	DepartureTime *string
	SeatCount     *int
	Price         *int64
	MaxParcels    *int
	PayoutStatus  *domain.PayoutStatus
}

// TripService implements the trip registry: creation (single or
// recurring series), validated updates, publishing, and driver
// assignment with conflict checking.
type TripService struct {
	trips       store.TripStore
	audit       store.AuditStore
	clock       clock.Clock
	horizonDays int
}

// NewTripService constructs a TripService. horizonDays bounds recurrence
// expansion when a pattern has no end date; pass 0 for the default.
func NewTripService(trips store.TripStore, audit store.AuditStore, clk clock.Clock, horizonDays int) *TripService {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	return &TripService{trips: trips, audit: audit, clock: clk, horizonDays: horizonDays}
}

// Create validates and persists a new trip. When in.Recurring is set the
// pattern is expanded (start date included) and one trip is created per
// date, all sharing a freshly generated series ID. Creation is
// all-or-nothing: a validation failure creates nothing.
func (s *TripService) Create(ctx context.Context, in CreateTripInput, actor string) ([]domain.Trip, error) {
	if err := validateCreateTrip(in); err != nil {
		return nil, err
	}

	dates := []time.Time{domain.DateOnly(in.Date)}
	var seriesID *uuid.UUID
	if in.Recurring {
		id := uuid.New()
		seriesID = &id
		dates = in.Pattern.Expand(in.Date, s.horizonDays, true)
	}

	status := in.Status
	if status == "" {
		status = domain.TripStatusDraft
	}

	now := s.clock.Now()
	trips := make([]domain.Trip, 0, len(dates))
	for _, date := range dates {
		trips = append(trips, domain.Trip{
			ID:            uuid.New(),
			ParkID:        in.ParkID,
			RouteID:       in.RouteID,
			Date:          date,
			DepartureTime: in.DepartureTime,
			SeatCount:     in.SeatCount,
			MaxParcels:    in.MaxParcels,
			Price:         in.Price,
			Status:        status,
			PayoutStatus:  domain.PayoutNotScheduled,
			Recurring:     in.Recurring,
			Pattern:       in.Pattern,
			SeriesID:      seriesID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if len(trips) > 0 {
		if err := s.trips.Create(ctx, trips...); err != nil {
			return nil, fmt.Errorf("service.TripService.Create: %w", err)
		}
	}

	for _, t := range trips {
		payload := map[string]any{"park_id": t.ParkID, "route_id": t.RouteID, "date": t.Date.Format(time.DateOnly)}
		if seriesID != nil {
			payload["series_id"] = seriesID.String()
		}
		if err := s.record(ctx, actor, "trip", t.ID.String(), "trip.created", payload); err != nil {
			return nil, fmt.Errorf("service.TripService.Create: %w", err)
		}
	}

	return trips, nil
}

// Update applies upd to the trip identified by tripID and, depending on
// scope, to other occurrences of its series. Business rules are checked
// against every selected trip before anything is written:
//   - the seat count may not drop below a trip's current confirmed count
//     (domain.ErrCapacity);
//   - the price may not change on a trip with confirmed bookings
//     (domain.ErrImmutableField).
//
// A scope of future or series on a non-series trip degrades to
// occurrence. On success every selected trip gets its updated-at stamped.
func (s *TripService) Update(ctx context.Context, tripID uuid.UUID, upd TripUpdate, scope UpdateScope, actor string) ([]domain.Trip, error) {
	if err := validateTripUpdate(upd); err != nil {
		return nil, err
	}
	if scope == "" {
		scope = ScopeOccurrence
	}

	target, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Update: %w", err)
	}

	ids, err := s.selectScope(ctx, target, scope)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Update: %w", err)
	}

	now := s.clock.Now()
	updated, err := s.trips.UpdateAll(ctx, ids, func(t *domain.Trip) error {
		if upd.SeatCount != nil {
			if *upd.SeatCount < t.ConfirmedBookingsCount {
				return fmt.Errorf("%w: seat count %d is below %d booked seats", domain.ErrCapacity, *upd.SeatCount, t.ConfirmedBookingsCount)
			}
			t.SeatCount = *upd.SeatCount
		}
		if upd.Price != nil && *upd.Price != t.Price {
			if t.ConfirmedBookingsCount > 0 {
				return fmt.Errorf("%w: price cannot change with existing bookings", domain.ErrImmutableField)
			}
			t.Price = *upd.Price
		}
		if upd.DepartureTime != nil {
			t.DepartureTime = *upd.DepartureTime
		}
		if upd.MaxParcels != nil {
			t.MaxParcels = *upd.MaxParcels
		}
		if upd.PayoutStatus != nil {
			t.PayoutStatus = *upd.PayoutStatus
		}
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Update: %w", err)
	}

	for _, t := range updated {
		err := s.record(ctx, actor, "trip", t.ID.String(), "trip.updated", map[string]any{"scope": string(scope)})
		if err != nil {
			return nil, fmt.Errorf("service.TripService.Update: %w", err)
		}
	}
	return updated, nil
}

// Publish transitions a draft trip to published. Any other starting
// status is rejected with domain.ErrInvalidState.
func (s *TripService) Publish(ctx context.Context, tripID uuid.UUID, actor string) (domain.Trip, error) {
	now := s.clock.Now()
	trip, err := s.trips.Update(ctx, tripID, func(t *domain.Trip) error {
		if t.Status != domain.TripStatusDraft {
			return fmt.Errorf("%w: cannot publish a %s trip", domain.ErrInvalidState, t.Status)
		}
		t.Status = domain.TripStatusPublished
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Publish: %w", err)
	}

	if err := s.record(ctx, actor, "trip", trip.ID.String(), "trip.published", nil); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Publish: %w", err)
	}
	return trip, nil
}

// AssignDriver sets the trip's driver after checking that the driver has
// no other published or live trip on the same date. The conflict scan
// and the driver write run inside one store critical section, so two
// concurrent assignments for the same driver and date cannot both pass
// the check. A conflict returns a domain.DriverConflictError carrying
// the clashing trip's ID, and nothing is mutated.
func (s *TripService) AssignDriver(ctx context.Context, tripID uuid.UUID, driverID, driverPhone, actor string) (domain.Trip, error) {
	if driverID == "" {
		return domain.Trip{}, fmt.Errorf("%w: driver id is required", domain.ErrValidation)
	}

	now := s.clock.Now()
	trip, err := s.trips.UpdateScan(ctx, tripID, func(t *domain.Trip, others []domain.Trip) error {
		for _, other := range others {
			if other.DriverID != driverID || !other.Date.Equal(t.Date) {
				continue
			}
			if other.Status == domain.TripStatusPublished || other.Status == domain.TripStatusLive {
				return domain.DriverConflictError{DriverID: driverID, ConflictingTripID: other.ID}
			}
		}
		t.DriverID = driverID
		t.DriverPhone = driverPhone
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AssignDriver: %w", err)
	}

	err = s.record(ctx, actor, "trip", trip.ID.String(), "trip.driver_assigned", map[string]any{"driver_id": driverID})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AssignDriver: %w", err)
	}
	return trip, nil
}

// Get returns a single trip by ID.
func (s *TripService) Get(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// List returns trips filtered by park and/or date. Zero-valued filters
// return the full set; set filters are ANDed. Always returns a non-nil
// slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, parkID string, date *time.Time) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx, store.TripFilter{ParkID: parkID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// PreviewDates expands a recurrence pattern from start, excluding the
// start date itself — the preview answers "which further dates would
// this create". Pure: no trips are written.
func (s *TripService) PreviewDates(start time.Time, pattern domain.RecurrencePattern) ([]time.Time, error) {
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	return pattern.Expand(start, s.horizonDays, false), nil
}

// selectScope resolves the trip IDs an update applies to. Non-series
// trips always resolve to just themselves.
func (s *TripService) selectScope(ctx context.Context, target domain.Trip, scope UpdateScope) ([]uuid.UUID, error) {
	if scope == ScopeOccurrence || target.SeriesID == nil {
		return []uuid.UUID{target.ID}, nil
	}

	series, err := s.trips.ListBySeries(ctx, *target.SeriesID)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, t := range series {
		if scope == ScopeFuture && t.Date.Before(target.Date) {
			continue
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// record appends an audit entry for a mutation performed by this service.
func (s *TripService) record(ctx context.Context, actor, entityType, entityID, action string, payload map[string]any) error {
	return appendAudit(ctx, s.audit, s.clock, actor, entityType, entityID, action, payload)
}

// validateCreateTrip enforces the static creation rules.
//   - Park, route, and a parseable departure time are required.
//   - Seat count must be in [1, domain.MaxSeatCount].
//   - A recurring trip must carry a valid pattern.
func validateCreateTrip(in CreateTripInput) error {
	if in.ParkID == "" {
		return fmt.Errorf("%w: park id is required", domain.ErrValidation)
	}
	if in.RouteID == "" {
		return fmt.Errorf("%w: route id is required", domain.ErrValidation)
	}
	if err := validateDepartureTime(in.DepartureTime); err != nil {
		return err
	}
	if in.SeatCount < 1 {
		return fmt.Errorf("%w: seat count must be at least 1", domain.ErrValidation)
	}
	if in.SeatCount > domain.MaxSeatCount {
		return fmt.Errorf("%w: seat count exceeds maximum of %d", domain.ErrValidation, domain.MaxSeatCount)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown trip status %q", domain.ErrValidation, in.Status)
	}
	if in.Recurring {
		if in.Pattern == nil {
			return fmt.Errorf("%w: recurrence pattern is required for a recurring trip", domain.ErrValidation)
		}
		if err := in.Pattern.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateTripUpdate enforces the static update rules; the per-trip
// rules (shrink guard, price immutability) run inside the store closure.
func validateTripUpdate(upd TripUpdate) error {
	if upd.SeatCount != nil {
		if *upd.SeatCount < 1 {
			return fmt.Errorf("%w: seat count must be at least 1", domain.ErrValidation)
		}
		if *upd.SeatCount > domain.MaxSeatCount {
			return fmt.Errorf("%w: seat count exceeds maximum of %d", domain.ErrValidation, domain.MaxSeatCount)
		}
	}
	if upd.Price != nil && *upd.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if upd.DepartureTime != nil {
		if err := validateDepartureTime(*upd.DepartureTime); err != nil {
			return err
		}
	}
	if upd.PayoutStatus != nil {
		switch *upd.PayoutStatus {
		case domain.PayoutNotScheduled, domain.PayoutScheduled, domain.PayoutPaid:
		default:
			return fmt.Errorf("%w: unknown payout status %q", domain.ErrValidation, *upd.PayoutStatus)
		}
	}
	return nil
}

func validateDepartureTime(v string) error {
	if _, err := time.Parse("15:04", v); err != nil {
		return fmt.Errorf("%w: departure time must be HH:MM", domain.ErrValidation)
	}
	return nil
}
