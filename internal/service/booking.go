package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FemiElu/movaa-park-api/internal/clock"
	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// DefaultHoldDuration is the hold window applied when a reservation does
// not request one.
const DefaultHoldDuration = 10 * time.Minute

// ReserveInput is the plain data accepted for a seat reservation.
type ReserveInput struct {
	Passenger  domain.Contact
	NextOfKin  domain.Contact
	AmountPaid int64
	// HoldFor overrides the hold window. Zero means the service default.
	HoldFor time.Duration
}

// BookingService is the seat hold engine. Reservations increment the
// trip's seat counter immediately — a held seat is unavailable to others
// before payment — and schedule a cancellable release timer. Confirmation
// and automatic release are mutually exclusive outcomes for a booking:
// whichever reaches the store first wins, and the loser is a no-op.
//
// Expiry is always also checked by timestamp at confirmation time, never
// by assuming the timer has fired: timer scheduling order relative to
// caller code is not guaranteed.
type BookingService struct {
	trips    store.TripStore
	bookings store.BookingStore
	audit    store.AuditStore
	clock    clock.Clock
	holdFor  time.Duration

	mu     sync.Mutex
	timers map[uuid.UUID]clock.Timer
}

// NewBookingService constructs a BookingService. holdFor is the default
// hold window; pass 0 for DefaultHoldDuration.
func NewBookingService(trips store.TripStore, bookings store.BookingStore, audit store.AuditStore, clk clock.Clock, holdFor time.Duration) *BookingService {
	if holdFor <= 0 {
		holdFor = DefaultHoldDuration
	}
	return &BookingService{
		trips:    trips,
		bookings: bookings,
		audit:    audit,
		clock:    clk,
		holdFor:  holdFor,
		timers:   make(map[uuid.UUID]clock.Timer),
	}
}

// Reserve allocates a seat on the trip and creates a pending booking
// with a time-boxed hold.
//
// Failure modes: domain.ErrNotFound for a missing trip,
// domain.ErrTripNotBookable unless the trip is published or live, and
// domain.ErrCapacity when no seats remain. The capacity check and the
// counter increment are one critical section inside the store closure,
// so concurrent reservations cannot oversell.
//
// The assigned seat number is the counter value after the increment.
// Released holds return capacity but not the specific numeric label; see
// domain.Booking.
func (s *BookingService) Reserve(ctx context.Context, tripID uuid.UUID, in ReserveInput, actor string) (domain.Booking, error) {
	if err := validateReserve(in); err != nil {
		return domain.Booking{}, err
	}

	holdFor := in.HoldFor
	if holdFor <= 0 {
		holdFor = s.holdFor
	}

	var seat int
	_, err := s.trips.Update(ctx, tripID, func(t *domain.Trip) error {
		if !t.Bookable() {
			return fmt.Errorf("%w: trip is %s", domain.ErrTripNotBookable, t.Status)
		}
		if t.ConfirmedBookingsCount >= t.SeatCount {
			return fmt.Errorf("%w: no seats available", domain.ErrCapacity)
		}
		t.ConfirmedBookingsCount++
		seat = t.ConfirmedBookingsCount
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Reserve: %w", err)
	}

	now := s.clock.Now()
	expiresAt := now.Add(holdFor)
	booking := domain.Booking{
		ID:            uuid.New(),
		TripID:        tripID,
		Passenger:     in.Passenger,
		NextOfKin:     in.NextOfKin,
		SeatNumber:    seat,
		AmountPaid:    in.AmountPaid,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.BookingPending,
		HoldExpiresAt: &expiresAt,
		HoldToken:     uuid.NewString(),
		CreatedAt:     now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		// Give the seat back; the increment already committed.
		_, _ = s.trips.Update(ctx, tripID, decrementSeatCount)
		return domain.Booking{}, fmt.Errorf("service.BookingService.Reserve: %w", err)
	}

	s.scheduleRelease(booking.ID, holdFor)

	err = s.record(ctx, actor, booking.ID, "booking.reserved", map[string]any{
		"trip_id":     tripID.String(),
		"seat_number": seat,
		"expires_at":  expiresAt.Format(time.RFC3339),
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Reserve: %w", err)
	}
	return booking, nil
}

// ConfirmPayment transitions a pending booking to confirmed and cancels
// its release timer. The trip's seat counter is untouched — it was
// already incremented at reservation time.
//
// A confirmation after the hold window returns domain.ErrHoldExpired; if
// the release timer has already removed the booking, domain.ErrNotFound.
// Both checks and the status flip happen inside the store closure, so a
// timer firing concurrently cannot interleave.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID uuid.UUID, actor string) (domain.Booking, error) {
	now := s.clock.Now()
	booking, err := s.bookings.Update(ctx, bookingID, func(b *domain.Booking) error {
		if b.Status != domain.BookingPending {
			return fmt.Errorf("%w: booking is %s", domain.ErrInvalidState, b.Status)
		}
		if b.HoldExpiresAt != nil && now.After(*b.HoldExpiresAt) {
			return fmt.Errorf("%w: hold lapsed at %s", domain.ErrHoldExpired, b.HoldExpiresAt.Format(time.RFC3339))
		}
		b.Status = domain.BookingConfirmed
		b.PaymentStatus = domain.PaymentConfirmed
		b.HoldExpiresAt = nil
		b.HoldToken = ""
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.ConfirmPayment: %w", err)
	}

	s.cancelRelease(bookingID)

	err = s.record(ctx, actor, bookingID, "booking.confirmed", map[string]any{"trip_id": booking.TripID.String()})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.ConfirmPayment: %w", err)
	}
	return booking, nil
}

// CheckIn marks a booking as checked in. Cancelled and refunded bookings
// are rejected with domain.ErrInvalidState; a booking that does not
// belong to the trip reports domain.ErrNotFound.
func (s *BookingService) CheckIn(ctx context.Context, tripID, bookingID uuid.UUID, actor string) (domain.Booking, error) {
	if _, err := s.trips.Get(ctx, tripID); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.CheckIn: %w", err)
	}

	booking, err := s.bookings.Update(ctx, bookingID, func(b *domain.Booking) error {
		if b.TripID != tripID {
			return fmt.Errorf("%w: booking does not belong to trip", domain.ErrNotFound)
		}
		if !b.CheckInAllowed() {
			return fmt.Errorf("%w: cannot check in a %s booking", domain.ErrInvalidState, b.Status)
		}
		b.CheckedIn = true
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.CheckIn: %w", err)
	}

	if err := s.record(ctx, actor, bookingID, "booking.checked_in", nil); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.CheckIn: %w", err)
	}
	return booking, nil
}

// ListByTrip returns a trip's bookings ordered by creation time. Always
// returns a non-nil slice.
func (s *BookingService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	if _, err := s.trips.Get(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByTrip: %w", err)
	}
	bookings, err := s.bookings.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByTrip: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// Close stops every pending release timer. Call it on shutdown; held
// seats are process-lifetime state anyway, so there is nothing to flush.
func (s *BookingService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// release is the deferred callback behind a hold. It removes the booking
// — only if it is still pending — and gives the seat back to the trip.
// A booking confirmed before the timer fired makes release a no-op.
func (s *BookingService) release(bookingID uuid.UUID) {
	ctx := context.Background()

	s.mu.Lock()
	delete(s.timers, bookingID)
	s.mu.Unlock()

	var released domain.Booking
	err := s.bookings.Delete(ctx, bookingID, func(b domain.Booking) error {
		if b.Status != domain.BookingPending {
			return fmt.Errorf("%w: booking already %s", domain.ErrInvalidState, b.Status)
		}
		released = b
		return nil
	})
	if err != nil {
		// Confirmed or already gone — the hold no longer owns the seat.
		return
	}

	_, _ = s.trips.Update(ctx, released.TripID, decrementSeatCount)
	_ = s.record(ctx, domain.ActorSystem, bookingID, "booking.hold_released", map[string]any{
		"trip_id":     released.TripID.String(),
		"seat_number": released.SeatNumber,
	})
}

// scheduleRelease registers the deferred release for a new hold.
func (s *BookingService) scheduleRelease(bookingID uuid.UUID, holdFor time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[bookingID] = s.clock.AfterFunc(holdFor, func() { s.release(bookingID) })
}

// cancelRelease stops and forgets the booking's release timer, if any.
func (s *BookingService) cancelRelease(bookingID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[bookingID]; ok {
		timer.Stop()
		delete(s.timers, bookingID)
	}
}

func (s *BookingService) record(ctx context.Context, actor string, bookingID uuid.UUID, action string, payload map[string]any) error {
	return appendAudit(ctx, s.audit, s.clock, actor, "booking", bookingID.String(), action, payload)
}

// decrementSeatCount is the closure shared by release and reservation
// compensation. The floor guard keeps the invariant 0 <= count even if a
// release races a compensating decrement.
func decrementSeatCount(t *domain.Trip) error {
	if t.ConfirmedBookingsCount > 0 {
		t.ConfirmedBookingsCount--
	}
	return nil
}

func validateReserve(in ReserveInput) error {
	if in.Passenger.Name == "" {
		return fmt.Errorf("%w: passenger name is required", domain.ErrValidation)
	}
	if in.Passenger.Phone == "" {
		return fmt.Errorf("%w: passenger phone is required", domain.ErrValidation)
	}
	if in.AmountPaid < 0 {
		return fmt.Errorf("%w: amount paid cannot be negative", domain.ErrValidation)
	}
	return nil
}
