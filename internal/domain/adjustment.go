package domain

import (
	"time"

	"github.com/google/uuid"
)

// Adjustment is a manual signed monetary correction tied to a trip.
// Positive amounts move money to the driver side of the split, negative
// amounts move it to the park side. The reason is free text recorded for
// later inspection.
type Adjustment struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Amount    int64     `json:"amount"` // kobo, signed
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}
