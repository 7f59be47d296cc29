package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/handler"
	"github.com/FemiElu/movaa-park-api/internal/service"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// ---- mocks -----------------------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create       func(ctx context.Context, in service.CreateTripInput, actor string) ([]domain.Trip, error)
	get          func(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
	list         func(ctx context.Context, parkID string, date *time.Time) ([]domain.Trip, error)
	update       func(ctx context.Context, tripID uuid.UUID, upd service.TripUpdate, scope service.UpdateScope, actor string) ([]domain.Trip, error)
	publish      func(ctx context.Context, tripID uuid.UUID, actor string) (domain.Trip, error)
	assignDriver func(ctx context.Context, tripID uuid.UUID, driverID, driverPhone, actor string) (domain.Trip, error)
	previewDates func(start time.Time, pattern domain.RecurrencePattern) ([]time.Time, error)
}

func (m *mockTripServicer) Create(ctx context.Context, in service.CreateTripInput, actor string) ([]domain.Trip, error) {
	return m.create(ctx, in, actor)
}
func (m *mockTripServicer) Get(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, tripID)
}
func (m *mockTripServicer) List(ctx context.Context, parkID string, date *time.Time) ([]domain.Trip, error) {
	return m.list(ctx, parkID, date)
}
func (m *mockTripServicer) Update(ctx context.Context, tripID uuid.UUID, upd service.TripUpdate, scope service.UpdateScope, actor string) ([]domain.Trip, error) {
	return m.update(ctx, tripID, upd, scope, actor)
}
func (m *mockTripServicer) Publish(ctx context.Context, tripID uuid.UUID, actor string) (domain.Trip, error) {
	return m.publish(ctx, tripID, actor)
}
func (m *mockTripServicer) AssignDriver(ctx context.Context, tripID uuid.UUID, driverID, driverPhone, actor string) (domain.Trip, error) {
	return m.assignDriver(ctx, tripID, driverID, driverPhone, actor)
}
func (m *mockTripServicer) PreviewDates(start time.Time, pattern domain.RecurrencePattern) ([]time.Time, error) {
	return m.previewDates(start, pattern)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

// mockBookingServicer is a test double for handler.BookingServicer.
type mockBookingServicer struct {
	reserve        func(ctx context.Context, tripID uuid.UUID, in service.ReserveInput, actor string) (domain.Booking, error)
	confirmPayment func(ctx context.Context, bookingID uuid.UUID, actor string) (domain.Booking, error)
	checkIn        func(ctx context.Context, tripID, bookingID uuid.UUID, actor string) (domain.Booking, error)
	listByTrip     func(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
}

func (m *mockBookingServicer) Reserve(ctx context.Context, tripID uuid.UUID, in service.ReserveInput, actor string) (domain.Booking, error) {
	return m.reserve(ctx, tripID, in, actor)
}
func (m *mockBookingServicer) ConfirmPayment(ctx context.Context, bookingID uuid.UUID, actor string) (domain.Booking, error) {
	return m.confirmPayment(ctx, bookingID, actor)
}
func (m *mockBookingServicer) CheckIn(ctx context.Context, tripID, bookingID uuid.UUID, actor string) (domain.Booking, error) {
	return m.checkIn(ctx, tripID, bookingID, actor)
}
func (m *mockBookingServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	return m.listByTrip(ctx, tripID)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

// mockFinanceServicer is a test double for handler.FinanceServicer.
type mockFinanceServicer struct {
	summary       func(ctx context.Context, tripID uuid.UUID) (domain.FinanceSummary, error)
	addAdjustment func(ctx context.Context, tripID uuid.UUID, amount int64, reason, actor string) (domain.Adjustment, error)
	addParcel     func(ctx context.Context, tripID uuid.UUID, sender domain.Contact, description string, fee int64, status domain.ParcelStatus, actor string) (domain.Parcel, error)
	listParcels   func(ctx context.Context, tripID uuid.UUID) ([]domain.Parcel, error)
}

func (m *mockFinanceServicer) Summary(ctx context.Context, tripID uuid.UUID) (domain.FinanceSummary, error) {
	return m.summary(ctx, tripID)
}
func (m *mockFinanceServicer) AddAdjustment(ctx context.Context, tripID uuid.UUID, amount int64, reason, actor string) (domain.Adjustment, error) {
	return m.addAdjustment(ctx, tripID, amount, reason, actor)
}
func (m *mockFinanceServicer) AddParcel(ctx context.Context, tripID uuid.UUID, sender domain.Contact, description string, fee int64, status domain.ParcelStatus, actor string) (domain.Parcel, error) {
	return m.addParcel(ctx, tripID, sender, description, fee, status, actor)
}
func (m *mockFinanceServicer) ListParcels(ctx context.Context, tripID uuid.UUID) ([]domain.Parcel, error) {
	return m.listParcels(ctx, tripID)
}

var _ handler.FinanceServicer = (*mockFinanceServicer)(nil)

// mockAuditServicer is a test double for handler.AuditServicer.
type mockAuditServicer struct {
	list func(ctx context.Context, f store.AuditFilter) ([]domain.AuditEntry, error)
}

func (m *mockAuditServicer) List(ctx context.Context, f store.AuditFilter) ([]domain.AuditEntry, error) {
	return m.list(ctx, f)
}

var _ handler.AuditServicer = (*mockAuditServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// deps bundles the mocks a test wires into the router. Nil fields are
// fine as long as the test never hits their routes.
type deps struct {
	trips    handler.TripServicer
	bookings handler.BookingServicer
	finance  handler.FinanceServicer
	audit    handler.AuditServicer
}

// newHTTPHandler wires a Server with the given mocks into the chi
// router, exactly how main.go wires it in production.
func newHTTPHandler(d deps) http.Handler {
	return handler.NewServer(d.trips, d.bookings, d.finance, d.audit).Routes()
}

func tripFixture() domain.Trip {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:            uuid.New(),
		ParkID:        "jibowu-park",
		RouteID:       "lagos-abuja",
		Date:          time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		DepartureTime: "07:30",
		SeatCount:     14,
		MaxParcels:    10,
		Price:         15_000_00,
		Status:        domain.TripStatusPublished,
		PayoutStatus:  domain.PayoutNotScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func bookingFixture(tripID uuid.UUID) domain.Booking {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	expires := now.Add(10 * time.Minute)
	return domain.Booking{
		ID:            uuid.New(),
		TripID:        tripID,
		Passenger:     domain.Contact{Name: "Amina Yusuf", Phone: "+2348030000001"},
		NextOfKin:     domain.Contact{Name: "Bola Yusuf", Phone: "+2348030000002"},
		SeatNumber:    1,
		AmountPaid:    15_000_00,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.BookingPending,
		HoldExpiresAt: &expires,
		HoldToken:     uuid.NewString(),
		CreatedAt:     now,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeBody[T any](t *testing.T, body *bytes.Buffer) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))
	return v
}
