package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/FemiElu/movaa-park-api/internal/domain"
)

// Memory holds every entity map behind one RWMutex. Closures passed to
// the Update methods run with the whole store consistent, so mutations
// that must observe each other (seat-count increments, shrink-guard
// validation) are serialized here rather than by the cooperative
// scheduling the original design assumed.
//
// Construct one Memory at startup and inject the per-resource stores it
// hands out; it owns no goroutines and needs no teardown. State lives for
// the lifetime of the process only.
type Memory struct {
	mu sync.RWMutex

	trips       map[uuid.UUID]domain.Trip
	bookings    map[uuid.UUID]domain.Booking
	parcels     map[uuid.UUID]domain.Parcel
	adjustments map[uuid.UUID]domain.Adjustment
	audit       []domain.AuditEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		trips:       make(map[uuid.UUID]domain.Trip),
		bookings:    make(map[uuid.UUID]domain.Booking),
		parcels:     make(map[uuid.UUID]domain.Parcel),
		adjustments: make(map[uuid.UUID]domain.Adjustment),
	}
}

// Trips returns the TripStore view of the memory store.
func (m *Memory) Trips() TripStore { return &memTrips{m} }

// Bookings returns the BookingStore view of the memory store.
func (m *Memory) Bookings() BookingStore { return &memBookings{m} }

// Parcels returns the ParcelStore view of the memory store.
func (m *Memory) Parcels() ParcelStore { return &memParcels{m} }

// Adjustments returns the AdjustmentStore view of the memory store.
func (m *Memory) Adjustments() AdjustmentStore { return &memAdjustments{m} }

// Audit returns the AuditStore view of the memory store.
func (m *Memory) Audit() AuditStore { return &memAudit{m} }

// --- trips ------------------------------------------------------------------

type memTrips struct{ m *Memory }

var _ TripStore = (*memTrips)(nil)

// Create inserts the given trips as one atomic batch. A duplicate ID
// fails the whole batch with nothing inserted.
func (s *memTrips) Create(ctx context.Context, trips ...domain.Trip) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, t := range trips {
		if _, exists := s.m.trips[t.ID]; exists {
			return fmt.Errorf("store.Trips.Create: duplicate trip id %s", t.ID)
		}
	}
	for _, t := range trips {
		s.m.trips[t.ID] = t
	}
	return nil
}

// Get retrieves a single trip by ID.
func (s *memTrips) Get(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	t, ok := s.m.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("store.Trips.Get: %w", domain.ErrNotFound)
	}
	return t, nil
}

// List returns trips matching the filter, ordered by date, then
// departure time, then creation time.
func (s *memTrips) List(ctx context.Context, f TripFilter) ([]domain.Trip, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []domain.Trip{}
	for _, t := range s.m.trips {
		if f.ParkID != "" && t.ParkID != f.ParkID {
			continue
		}
		if f.Date != nil && !t.Date.Equal(domain.DateOnly(*f.Date)) {
			continue
		}
		if f.DriverID != "" && t.DriverID != f.DriverID {
			continue
		}
		out = append(out, t)
	}
	sortTrips(out)
	return out, nil
}

// ListBySeries returns every occurrence sharing the series ID.
func (s *memTrips) ListBySeries(ctx context.Context, seriesID uuid.UUID) ([]domain.Trip, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []domain.Trip{}
	for _, t := range s.m.trips {
		if t.SeriesID != nil && *t.SeriesID == seriesID {
			out = append(out, t)
		}
	}
	sortTrips(out)
	return out, nil
}

// Update applies mutate to a single trip under the write lock.
func (s *memTrips) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Trip) error) (domain.Trip, error) {
	updated, err := s.UpdateAll(ctx, []uuid.UUID{id}, mutate)
	if err != nil {
		return domain.Trip{}, err
	}
	return updated[0], nil
}

// UpdateAll applies mutate to every listed trip, committing all or none.
// The closures run against copies; the map is written only after every
// closure has succeeded.
func (s *memTrips) UpdateAll(ctx context.Context, ids []uuid.UUID, mutate func(*domain.Trip) error) ([]domain.Trip, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	staged := make([]domain.Trip, 0, len(ids))
	for _, id := range ids {
		t, ok := s.m.trips[id]
		if !ok {
			return nil, fmt.Errorf("store.Trips.UpdateAll: trip %s: %w", id, domain.ErrNotFound)
		}
		if err := mutate(&t); err != nil {
			return nil, err
		}
		staged = append(staged, t)
	}
	for _, t := range staged {
		s.m.trips[t.ID] = t
	}
	return staged, nil
}

// UpdateScan applies mutate to the trip under the write lock, passing a
// snapshot of every other trip so the closure can scan the registry and
// mutate in one critical section.
func (s *memTrips) UpdateScan(ctx context.Context, id uuid.UUID, mutate func(t *domain.Trip, others []domain.Trip) error) (domain.Trip, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	t, ok := s.m.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("store.Trips.UpdateScan: %w", domain.ErrNotFound)
	}

	others := make([]domain.Trip, 0, len(s.m.trips)-1)
	for _, other := range s.m.trips {
		if other.ID != id {
			others = append(others, other)
		}
	}
	sortTrips(others)

	if err := mutate(&t, others); err != nil {
		return domain.Trip{}, err
	}
	s.m.trips[id] = t
	return t, nil
}

func sortTrips(trips []domain.Trip) {
	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].Date.Equal(trips[j].Date) {
			return trips[i].Date.Before(trips[j].Date)
		}
		if trips[i].DepartureTime != trips[j].DepartureTime {
			return trips[i].DepartureTime < trips[j].DepartureTime
		}
		return trips[i].CreatedAt.Before(trips[j].CreatedAt)
	})
}

// --- bookings ---------------------------------------------------------------

type memBookings struct{ m *Memory }

var _ BookingStore = (*memBookings)(nil)

// Create inserts a new booking.
func (s *memBookings) Create(ctx context.Context, b domain.Booking) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, exists := s.m.bookings[b.ID]; exists {
		return fmt.Errorf("store.Bookings.Create: duplicate booking id %s", b.ID)
	}
	s.m.bookings[b.ID] = b
	return nil
}

// Get retrieves a booking by ID.
func (s *memBookings) Get(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	b, ok := s.m.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("store.Bookings.Get: %w", domain.ErrNotFound)
	}
	return b, nil
}

// ListByTrip returns a trip's bookings ordered by creation time, then
// seat number for same-instant reservations.
func (s *memBookings) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range s.m.bookings {
		if b.TripID == tripID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out, nil
}

// Update applies mutate to the booking under the write lock.
func (s *memBookings) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Booking) error) (domain.Booking, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	b, ok := s.m.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("store.Bookings.Update: %w", domain.ErrNotFound)
	}
	if err := mutate(&b); err != nil {
		return domain.Booking{}, err
	}
	s.m.bookings[id] = b
	return b, nil
}

// Delete removes the booking if guard approves of its current state.
func (s *memBookings) Delete(ctx context.Context, id uuid.UUID, guard func(domain.Booking) error) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	b, ok := s.m.bookings[id]
	if !ok {
		return fmt.Errorf("store.Bookings.Delete: %w", domain.ErrNotFound)
	}
	if err := guard(b); err != nil {
		return err
	}
	delete(s.m.bookings, id)
	return nil
}

// --- parcels ----------------------------------------------------------------

type memParcels struct{ m *Memory }

var _ ParcelStore = (*memParcels)(nil)

// Create inserts the parcel if guard approves of the trip's current
// parcels, all under the write lock.
func (s *memParcels) Create(ctx context.Context, p domain.Parcel, guard func(existing []domain.Parcel) error) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, exists := s.m.parcels[p.ID]; exists {
		return fmt.Errorf("store.Parcels.Create: duplicate parcel id %s", p.ID)
	}
	if guard != nil {
		existing := []domain.Parcel{}
		for _, other := range s.m.parcels {
			if other.TripID == p.TripID {
				existing = append(existing, other)
			}
		}
		if err := guard(existing); err != nil {
			return err
		}
	}
	s.m.parcels[p.ID] = p
	return nil
}

func (s *memParcels) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Parcel, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []domain.Parcel{}
	for _, p := range s.m.parcels {
		if p.TripID == tripID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- adjustments ------------------------------------------------------------

type memAdjustments struct{ m *Memory }

var _ AdjustmentStore = (*memAdjustments)(nil)

func (s *memAdjustments) Create(ctx context.Context, a domain.Adjustment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, exists := s.m.adjustments[a.ID]; exists {
		return fmt.Errorf("store.Adjustments.Create: duplicate adjustment id %s", a.ID)
	}
	s.m.adjustments[a.ID] = a
	return nil
}

func (s *memAdjustments) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Adjustment, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []domain.Adjustment{}
	for _, a := range s.m.adjustments {
		if a.TripID == tripID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- audit ------------------------------------------------------------------

type memAudit struct{ m *Memory }

var _ AuditStore = (*memAudit)(nil)

// Append records one entry. The slice keeps insertion order; List walks
// it backwards so readers see the newest entry first.
func (s *memAudit) Append(ctx context.Context, e domain.AuditEntry) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.audit = append(s.m.audit, e)
	return nil
}

// List returns entries matching the filter, newest first.
func (s *memAudit) List(ctx context.Context, f AuditFilter) ([]domain.AuditEntry, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []domain.AuditEntry{}
	for i := len(s.m.audit) - 1; i >= 0; i-- {
		e := s.m.audit[i]
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != "" && e.EntityID != f.EntityID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
