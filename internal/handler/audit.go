package handler

import (
	"net/http"
	"time"

	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

type auditEntryResponse struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Payload    map[string]any `json:"payload,omitempty"`
	Actor      string         `json:"actor"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ListAudit handles GET /audit.
// Supports ?entity_type=, ?entity_id=, ?page= and ?limit= query
// parameters. Entries come back newest first.
func (s *Server) ListAudit(w http.ResponseWriter, r *http.Request) {
	filter := store.AuditFilter{
		EntityType: r.URL.Query().Get("entity_type"),
		EntityID:   r.URL.Query().Get("entity_id"),
	}

	entries, err := s.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	page := domain.Paginate(entries, params)
	respond(w, http.StatusOK, map[string]any{
		"data": auditEntriesToResponse(page),
		"pagination": map[string]int{
			"page":  params.Page,
			"limit": params.Limit,
			"total": len(entries),
		},
	})
}

func auditEntriesToResponse(entries []domain.AuditEntry) []auditEntryResponse {
	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			ID:         e.ID.String(),
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     e.Action,
			Payload:    e.Payload,
			Actor:      e.Actor,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
