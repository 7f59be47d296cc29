package handler

import (
	"net/http"
	"time"

	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/service"
)

type contactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

type createBookingRequest struct {
	Passenger  contactRequest `json:"passenger"`
	NextOfKin  contactRequest `json:"next_of_kin"`
	AmountPaid int64          `json:"amount_paid"`
	// HoldMinutes overrides the default hold window for this reservation.
	HoldMinutes int `json:"hold_minutes,omitempty"`
}

type bookingResponse struct {
	ID            string         `json:"id"`
	TripID        string         `json:"trip_id"`
	Passenger     domain.Contact `json:"passenger"`
	NextOfKin     domain.Contact `json:"next_of_kin"`
	SeatNumber    int            `json:"seat_number"`
	AmountPaid    int64          `json:"amount_paid"`
	PaymentStatus string         `json:"payment_status"`
	Status        string         `json:"status"`
	HoldExpiresAt *time.Time     `json:"hold_expires_at,omitempty"`
	HoldToken     string         `json:"hold_token,omitempty"`
	CheckedIn     bool           `json:"checked_in"`
	CreatedAt     time.Time      `json:"created_at"`
}

// CreateBooking handles POST /trips/{tripID}/bookings. The seat is held
// immediately; payment must be confirmed before the hold lapses.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	var req createBookingRequest
	if err := decode(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}
	if req.HoldMinutes < 0 {
		requestError(w, "hold_minutes cannot be negative")
		return
	}

	in := service.ReserveInput{
		Passenger:  domain.Contact(req.Passenger),
		NextOfKin:  domain.Contact(req.NextOfKin),
		AmountPaid: req.AmountPaid,
		HoldFor:    time.Duration(req.HoldMinutes) * time.Minute,
	}

	booking, err := s.bookings.Reserve(r.Context(), tripID, in, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, bookingToResponse(booking))
}

// ListBookings handles GET /trips/{tripID}/bookings.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	bookings, err := s.bookings.ListByTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		data[i] = bookingToResponse(b)
	}
	respond(w, http.StatusOK, map[string]any{"data": data})
}

// ConfirmBooking handles POST /bookings/{bookingID}/confirm.
func (s *Server) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(r, "bookingID")
	if !ok {
		requestError(w, "booking id must be a UUID")
		return
	}

	booking, err := s.bookings.ConfirmPayment(r.Context(), bookingID, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, bookingToResponse(booking))
}

// CheckInBooking handles POST /trips/{tripID}/bookings/{bookingID}/check-in.
func (s *Server) CheckInBooking(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}
	bookingID, ok := pathUUID(r, "bookingID")
	if !ok {
		requestError(w, "booking id must be a UUID")
		return
	}

	booking, err := s.bookings.CheckIn(r.Context(), tripID, bookingID, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, bookingToResponse(booking))
}

func bookingToResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID.String(),
		TripID:        b.TripID.String(),
		Passenger:     b.Passenger,
		NextOfKin:     b.NextOfKin,
		SeatNumber:    b.SeatNumber,
		AmountPaid:    b.AmountPaid,
		PaymentStatus: string(b.PaymentStatus),
		Status:        string(b.Status),
		HoldExpiresAt: b.HoldExpiresAt,
		HoldToken:     b.HoldToken,
		CheckedIn:     b.CheckedIn,
		CreatedAt:     b.CreatedAt,
	}
}
