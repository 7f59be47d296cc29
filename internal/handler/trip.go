package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/service"
)

const dateLayout = "2006-01-02"

// patternRequest is the wire form of a recurrence pattern. Dates travel
// as "YYYY-MM-DD" strings.
type patternRequest struct {
	Type       string   `json:"type"`
	DaysOfWeek []int    `json:"days_of_week,omitempty"`
	EndDate    *string  `json:"end_date,omitempty"`
	Exceptions []string `json:"exceptions,omitempty"`
}

type createTripRequest struct {
	ParkID        string          `json:"park_id"`
	RouteID       string          `json:"route_id"`
	Date          string          `json:"date"`
	DepartureTime string          `json:"departure_time"`
	SeatCount     int             `json:"seat_count"`
	MaxParcels    int             `json:"max_parcels"`
	Price         int64           `json:"price"`
	Status        string          `json:"status,omitempty"`
	Recurring     bool            `json:"recurring,omitempty"`
	Pattern       *patternRequest `json:"pattern,omitempty"`
}

type updateTripRequest struct {
	DepartureTime *string `json:"departure_time,omitempty"`
	SeatCount     *int    `json:"seat_count,omitempty"`
	Price         *int64  `json:"price,omitempty"`
	MaxParcels    *int    `json:"max_parcels,omitempty"`
	PayoutStatus  *string `json:"payout_status,omitempty"`
}

type assignDriverRequest struct {
	DriverID    string `json:"driver_id"`
	DriverPhone string `json:"driver_phone,omitempty"`
}

type previewRecurrenceRequest struct {
	StartDate string         `json:"start_date"`
	Pattern   patternRequest `json:"pattern"`
}

type tripResponse struct {
	ID                     string           `json:"id"`
	ParkID                 string           `json:"park_id"`
	RouteID                string           `json:"route_id"`
	Date                   string           `json:"date"`
	DepartureTime          string           `json:"departure_time"`
	SeatCount              int              `json:"seat_count"`
	ConfirmedBookingsCount int              `json:"confirmed_bookings_count"`
	SeatsRemaining         int              `json:"seats_remaining"`
	MaxParcels             int              `json:"max_parcels"`
	DriverID               string           `json:"driver_id,omitempty"`
	DriverPhone            string           `json:"driver_phone,omitempty"`
	Price                  int64            `json:"price"`
	Status                 string           `json:"status"`
	PayoutStatus           string           `json:"payout_status"`
	Recurring              bool             `json:"recurring"`
	Pattern                *patternResponse `json:"pattern,omitempty"`
	SeriesID               *string          `json:"series_id,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

type patternResponse struct {
	Type       string   `json:"type"`
	DaysOfWeek []int    `json:"days_of_week,omitempty"`
	EndDate    *string  `json:"end_date,omitempty"`
	Exceptions []string `json:"exceptions,omitempty"`
}

// CreateTrip handles POST /trips. A recurring request creates the whole
// series and returns every occurrence.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decode(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	in, err := requestToCreateInput(req)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	trips, err := s.trips.Create(r.Context(), in, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{"data": tripsToResponse(trips)})
}

// ListTrips handles GET /trips.
// Supports ?park_id=, ?date=, ?page= and ?limit= query parameters
// (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	parkID := r.URL.Query().Get("park_id")

	var date *time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			requestError(w, "date must be YYYY-MM-DD")
			return
		}
		date = &d
	}

	trips, err := s.trips.List(r.Context(), parkID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	page := domain.Paginate(trips, params)
	respond(w, http.StatusOK, map[string]any{
		"data": tripsToResponse(page),
		"pagination": map[string]int{
			"page":  params.Page,
			"limit": params.Limit,
			"total": len(trips),
		},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	trip, err := s.trips.Get(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PATCH /trips/{tripID}.
// The ?scope= query parameter selects occurrence (default), future, or
// series for trips that belong to a recurring series.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	scope := service.UpdateScope(r.URL.Query().Get("scope"))
	switch scope {
	case "", service.ScopeOccurrence, service.ScopeFuture, service.ScopeSeries:
	default:
		requestError(w, "scope must be occurrence, future, or series")
		return
	}

	var req updateTripRequest
	if err := decode(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	upd := service.TripUpdate{
		DepartureTime: req.DepartureTime,
		SeatCount:     req.SeatCount,
		Price:         req.Price,
		MaxParcels:    req.MaxParcels,
	}
	if req.PayoutStatus != nil {
		ps := domain.PayoutStatus(*req.PayoutStatus)
		upd.PayoutStatus = &ps
	}

	trips, err := s.trips.Update(r.Context(), tripID, upd, scope, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"data": tripsToResponse(trips)})
}

// PublishTrip handles POST /trips/{tripID}/publish.
func (s *Server) PublishTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	trip, err := s.trips.Publish(r.Context(), tripID, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, tripToResponse(trip))
}

// AssignDriver handles PUT /trips/{tripID}/driver.
func (s *Server) AssignDriver(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	var req assignDriverRequest
	if err := decode(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	trip, err := s.trips.AssignDriver(r.Context(), tripID, req.DriverID, req.DriverPhone, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, tripToResponse(trip))
}

// PreviewRecurrence handles POST /trips/recurrence/preview. It returns
// the dates a pattern would generate without creating anything.
func (s *Server) PreviewRecurrence(w http.ResponseWriter, r *http.Request) {
	var req previewRecurrenceRequest
	if err := decode(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		requestError(w, "start_date must be YYYY-MM-DD")
		return
	}
	pattern, err := requestToPattern(req.Pattern)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	dates, err := s.trips.PreviewDates(start, *pattern)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	respond(w, http.StatusOK, map[string]any{"dates": out})
}

// --- mapping helpers --------------------------------------------------------

func requestToCreateInput(req createTripRequest) (service.CreateTripInput, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return service.CreateTripInput{}, errors.New("date must be YYYY-MM-DD")
	}

	in := service.CreateTripInput{
		ParkID:        req.ParkID,
		RouteID:       req.RouteID,
		Date:          date,
		DepartureTime: req.DepartureTime,
		SeatCount:     req.SeatCount,
		MaxParcels:    req.MaxParcels,
		Price:         req.Price,
		Status:        domain.TripStatus(req.Status),
		Recurring:     req.Recurring,
	}
	if req.Pattern != nil {
		pattern, err := requestToPattern(*req.Pattern)
		if err != nil {
			return service.CreateTripInput{}, err
		}
		in.Pattern = pattern
	}
	return in, nil
}

func requestToPattern(req patternRequest) (*domain.RecurrencePattern, error) {
	p := domain.RecurrencePattern{Type: domain.RecurrenceType(req.Type)}

	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("days_of_week values must be 0 (Sunday) through 6 (Saturday), got %d", d)
		}
		p.DaysOfWeek = append(p.DaysOfWeek, time.Weekday(d))
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, errors.New("pattern end_date must be YYYY-MM-DD")
		}
		p.EndDate = &end
	}
	for _, v := range req.Exceptions {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, errors.New("pattern exceptions must be YYYY-MM-DD")
		}
		p.Exceptions = append(p.Exceptions, d)
	}
	return &p, nil
}

func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:                     t.ID.String(),
		ParkID:                 t.ParkID,
		RouteID:                t.RouteID,
		Date:                   t.Date.Format(dateLayout),
		DepartureTime:          t.DepartureTime,
		SeatCount:              t.SeatCount,
		ConfirmedBookingsCount: t.ConfirmedBookingsCount,
		SeatsRemaining:         t.SeatsRemaining(),
		MaxParcels:             t.MaxParcels,
		DriverID:               t.DriverID,
		DriverPhone:            t.DriverPhone,
		Price:                  t.Price,
		Status:                 string(t.Status),
		PayoutStatus:           string(t.PayoutStatus),
		Recurring:              t.Recurring,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
	if t.Pattern != nil {
		resp.Pattern = patternToResponse(*t.Pattern)
	}
	if t.SeriesID != nil {
		id := t.SeriesID.String()
		resp.SeriesID = &id
	}
	return resp
}

func patternToResponse(p domain.RecurrencePattern) *patternResponse {
	resp := &patternResponse{Type: string(p.Type)}
	for _, d := range p.DaysOfWeek {
		resp.DaysOfWeek = append(resp.DaysOfWeek, int(d))
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	for _, e := range p.Exceptions {
		resp.Exceptions = append(resp.Exceptions, e.Format(dateLayout))
	}
	return resp
}

func tripsToResponse(trips []domain.Trip) []tripResponse {
	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}

// queryInt parses an optional integer query parameter; absent or
// malformed values return nil so defaults apply.
func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
