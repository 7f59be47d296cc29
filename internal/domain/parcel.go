package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParcelStatus is the delivery state of a parcel.
type ParcelStatus string

const (
	ParcelRegistered ParcelStatus = "registered"
	ParcelAssigned   ParcelStatus = "assigned"
	ParcelInTransit  ParcelStatus = "in-transit"
	ParcelDelivered  ParcelStatus = "delivered"
	ParcelCancelled  ParcelStatus = "cancelled"
)

// Valid reports whether s is one of the known parcel statuses.
func (s ParcelStatus) Valid() bool {
	switch s {
	case ParcelRegistered, ParcelAssigned, ParcelInTransit, ParcelDelivered, ParcelCancelled:
		return true
	}
	return false
}

// Revenue reports whether a parcel in this status counts toward the
// trip's parcel revenue. Registered parcels have not been committed to a
// vehicle yet and cancelled ones never travel, so neither earns.
func (s ParcelStatus) Revenue() bool {
	switch s {
	case ParcelAssigned, ParcelInTransit, ParcelDelivered:
		return true
	}
	return false
}

// Parcel is a package carried on a trip for a fee.
type Parcel struct {
	ID          uuid.UUID    `json:"id"`
	TripID      uuid.UUID    `json:"trip_id"`
	SenderName  string       `json:"sender_name"`
	SenderPhone string       `json:"sender_phone"`
	Description string       `json:"description,omitempty"`
	Fee         int64        `json:"fee"` // kobo
	Status      ParcelStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}
