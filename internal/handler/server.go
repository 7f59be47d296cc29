// Package handler implements the HTTP handlers for the park booking API.
// All handlers are methods on Server. Methods are split into
// domain-specific files (health.go, trip.go, etc.) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/service"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// actorHeader carries the identity of the park admin performing a
// mutation. Missing or empty means the system actor.
const actorHeader = "X-Actor-Id"

// TripServicer defines the business operations the trip handlers depend
// on. Defining the interface here (in the consumer package) follows the
// Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the service layer.
type TripServicer interface {
	Create(ctx context.Context, in service.CreateTripInput, actor string) ([]domain.Trip, error)
	Get(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, parkID string, date *time.Time) ([]domain.Trip, error)
	Update(ctx context.Context, tripID uuid.UUID, upd service.TripUpdate, scope service.UpdateScope, actor string) ([]domain.Trip, error)
	Publish(ctx context.Context, tripID uuid.UUID, actor string) (domain.Trip, error)
	AssignDriver(ctx context.Context, tripID uuid.UUID, driverID, driverPhone, actor string) (domain.Trip, error)
	PreviewDates(start time.Time, pattern domain.RecurrencePattern) ([]time.Time, error)
}

// BookingServicer defines the booking operations the handlers depend on.
type BookingServicer interface {
	Reserve(ctx context.Context, tripID uuid.UUID, in service.ReserveInput, actor string) (domain.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID, actor string) (domain.Booking, error)
	CheckIn(ctx context.Context, tripID, bookingID uuid.UUID, actor string) (domain.Booking, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
}

// FinanceServicer defines the finance operations the handlers depend on.
type FinanceServicer interface {
	Summary(ctx context.Context, tripID uuid.UUID) (domain.FinanceSummary, error)
	AddAdjustment(ctx context.Context, tripID uuid.UUID, amount int64, reason, actor string) (domain.Adjustment, error)
	AddParcel(ctx context.Context, tripID uuid.UUID, sender domain.Contact, description string, fee int64, status domain.ParcelStatus, actor string) (domain.Parcel, error)
	ListParcels(ctx context.Context, tripID uuid.UUID) ([]domain.Parcel, error)
}

// AuditServicer defines the audit log read operations.
type AuditServicer interface {
	List(ctx context.Context, f store.AuditFilter) ([]domain.AuditEntry, error)
}

// Server holds the handlers for all API endpoints. Methods are in
// domain-specific files but all operate on this struct.
type Server struct {
	trips    TripServicer
	bookings BookingServicer
	finance  FinanceServicer
	audit    AuditServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, bookings BookingServicer, finance FinanceServicer, audit AuditServicer) *Server {
	return &Server{trips: trips, bookings: bookings, finance: finance, audit: audit}
}

// Routes mounts every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.Health)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Post("/recurrence/preview", s.PreviewRecurrence)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Post("/publish", s.PublishTrip)
			r.Put("/driver", s.AssignDriver)
			r.Get("/finance", s.FinanceSummary)
			r.Post("/adjustments", s.CreateAdjustment)
			r.Post("/parcels", s.CreateParcel)
			r.Get("/parcels", s.ListParcels)
			r.Post("/bookings", s.CreateBooking)
			r.Get("/bookings", s.ListBookings)
			r.Post("/bookings/{bookingID}/check-in", s.CheckInBooking)
		})
	})

	r.Post("/bookings/{bookingID}/confirm", s.ConfirmBooking)
	r.Get("/audit", s.ListAudit)

	return r
}

// actor extracts the acting admin from the request headers.
func actor(r *http.Request) string {
	if v := r.Header.Get(actorHeader); v != "" {
		return v
	}
	return domain.ActorSystem
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// decode reads the request body into v. An empty or malformed body is a
// client error, reported by the caller as 422.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respond writes v as a JSON response with the given status.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
