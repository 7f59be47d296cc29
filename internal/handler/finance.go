package handler

import (
	"net/http"

	"github.com/FemiElu/movaa-park-api/internal/domain"
)

type createAdjustmentRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type createParcelRequest struct {
	Sender      contactRequest `json:"sender"`
	Description string         `json:"description,omitempty"`
	Fee         int64          `json:"fee"`
	Status      string         `json:"status,omitempty"`
}

// FinanceSummary handles GET /trips/{tripID}/finance. The split is
// computed on demand; nothing is persisted.
func (s *Server) FinanceSummary(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	summary, err := s.finance.Summary(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, summary)
}

// CreateAdjustment handles POST /trips/{tripID}/adjustments.
func (s *Server) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	var req createAdjustmentRequest
	if err := decode(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	adj, err := s.finance.AddAdjustment(r.Context(), tripID, req.Amount, req.Reason, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, adj)
}

// CreateParcel handles POST /trips/{tripID}/parcels.
func (s *Server) CreateParcel(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	var req createParcelRequest
	if err := decode(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	parcel, err := s.finance.AddParcel(r.Context(), tripID, domain.Contact(req.Sender), req.Description, req.Fee, domain.ParcelStatus(req.Status), actor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, parcel)
}

// ListParcels handles GET /trips/{tripID}/parcels.
func (s *Server) ListParcels(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		requestError(w, "trip id must be a UUID")
		return
	}

	parcels, err := s.finance.ListParcels(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"data": parcels})
}
