package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActorSystem is the fallback actor recorded when a mutation carries no
// explicit attribution (e.g. the automatic hold-release timer).
const ActorSystem = "system"

// AuditEntry is one immutable record of a mutating action. Entries are
// append-only: nothing in this engine updates or deletes them.
type AuditEntry struct {
	ID         uuid.UUID      `json:"id"`
	EntityType string         `json:"entity_type"` // "trip", "booking", "parcel", "adjustment"
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"` // e.g. "trip.created", "booking.hold_released"
	Payload    map[string]any `json:"payload,omitempty"`
	Actor      string         `json:"actor"`
	CreatedAt  time.Time      `json:"created_at"`
}
