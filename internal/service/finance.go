package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/FemiElu/movaa-park-api/internal/clock"
	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// FinanceService computes per-trip revenue splits on demand and manages
// the inputs that feed them: parcels and manual adjustments. Summaries
// are never persisted.
type FinanceService struct {
	trips       store.TripStore
	bookings    store.BookingStore
	parcels     store.ParcelStore
	adjustments store.AdjustmentStore
	audit       store.AuditStore
	clock       clock.Clock
}

// NewFinanceService constructs a FinanceService backed by the given stores.
func NewFinanceService(trips store.TripStore, bookings store.BookingStore, parcels store.ParcelStore, adjustments store.AdjustmentStore, audit store.AuditStore, clk clock.Clock) *FinanceService {
	return &FinanceService{
		trips:       trips,
		bookings:    bookings,
		parcels:     parcels,
		adjustments: adjustments,
		audit:       audit,
		clock:       clk,
	}
}

// Summary derives the trip's revenue split from its current bookings,
// parcels, and adjustments.
func (s *FinanceService) Summary(ctx context.Context, tripID uuid.UUID) (domain.FinanceSummary, error) {
	if _, err := s.trips.Get(ctx, tripID); err != nil {
		return domain.FinanceSummary{}, fmt.Errorf("service.FinanceService.Summary: %w", err)
	}

	bookings, err := s.bookings.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.FinanceSummary{}, fmt.Errorf("service.FinanceService.Summary: %w", err)
	}
	parcels, err := s.parcels.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.FinanceSummary{}, fmt.Errorf("service.FinanceService.Summary: %w", err)
	}
	adjustments, err := s.adjustments.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.FinanceSummary{}, fmt.Errorf("service.FinanceService.Summary: %w", err)
	}

	return domain.ComputeFinance(bookings, parcels, adjustments), nil
}

// AddAdjustment records a manual signed correction against the trip's
// split. The reason is mandatory — an unexplained adjustment is useless
// at reconciliation time.
func (s *FinanceService) AddAdjustment(ctx context.Context, tripID uuid.UUID, amount int64, reason, actor string) (domain.Adjustment, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.Adjustment{}, fmt.Errorf("%w: adjustment reason is required", domain.ErrValidation)
	}
	if amount == 0 {
		return domain.Adjustment{}, fmt.Errorf("%w: adjustment amount cannot be zero", domain.ErrValidation)
	}
	if _, err := s.trips.Get(ctx, tripID); err != nil {
		return domain.Adjustment{}, fmt.Errorf("service.FinanceService.AddAdjustment: %w", err)
	}

	if actor == "" {
		actor = domain.ActorSystem
	}
	adj := domain.Adjustment{
		ID:        uuid.New(),
		TripID:    tripID,
		Amount:    amount,
		Reason:    strings.TrimSpace(reason),
		Actor:     actor,
		CreatedAt: s.clock.Now(),
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		return domain.Adjustment{}, fmt.Errorf("service.FinanceService.AddAdjustment: %w", err)
	}

	err := appendAudit(ctx, s.audit, s.clock, actor, "adjustment", adj.ID.String(), "adjustment.created", map[string]any{
		"trip_id": tripID.String(),
		"amount":  amount,
	})
	if err != nil {
		return domain.Adjustment{}, fmt.Errorf("service.FinanceService.AddAdjustment: %w", err)
	}
	return adj, nil
}

// AddParcel registers a parcel on the trip. The trip's MaxParcels cap is
// enforced when set (zero means unlimited).
func (s *FinanceService) AddParcel(ctx context.Context, tripID uuid.UUID, sender domain.Contact, description string, fee int64, status domain.ParcelStatus, actor string) (domain.Parcel, error) {
	if sender.Name == "" {
		return domain.Parcel{}, fmt.Errorf("%w: sender name is required", domain.ErrValidation)
	}
	if fee < 0 {
		return domain.Parcel{}, fmt.Errorf("%w: parcel fee cannot be negative", domain.ErrValidation)
	}
	if status == "" {
		status = domain.ParcelRegistered
	}
	if !status.Valid() {
		return domain.Parcel{}, fmt.Errorf("%w: unknown parcel status %q", domain.ErrValidation, status)
	}

	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return domain.Parcel{}, fmt.Errorf("service.FinanceService.AddParcel: %w", err)
	}

	parcel := domain.Parcel{
		ID:          uuid.New(),
		TripID:      tripID,
		SenderName:  sender.Name,
		SenderPhone: sender.Phone,
		Description: description,
		Fee:         fee,
		Status:      status,
		CreatedAt:   s.clock.Now(),
	}
	// The cap check runs as the store's insert guard so the count and the
	// insert are one critical section.
	err = s.parcels.Create(ctx, parcel, func(existing []domain.Parcel) error {
		if trip.MaxParcels > 0 && len(existing) >= trip.MaxParcels {
			return fmt.Errorf("%w: trip already carries %d parcels", domain.ErrCapacity, len(existing))
		}
		return nil
	})
	if err != nil {
		return domain.Parcel{}, fmt.Errorf("service.FinanceService.AddParcel: %w", err)
	}

	err = appendAudit(ctx, s.audit, s.clock, actor, "parcel", parcel.ID.String(), "parcel.created", map[string]any{
		"trip_id": tripID.String(),
		"fee":     fee,
	})
	if err != nil {
		return domain.Parcel{}, fmt.Errorf("service.FinanceService.AddParcel: %w", err)
	}
	return parcel, nil
}

// ListParcels returns a trip's parcels ordered by creation time. Always
// returns a non-nil slice.
func (s *FinanceService) ListParcels(ctx context.Context, tripID uuid.UUID) ([]domain.Parcel, error) {
	if _, err := s.trips.Get(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.FinanceService.ListParcels: %w", err)
	}
	parcels, err := s.parcels.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.FinanceService.ListParcels: %w", err)
	}
	if parcels == nil {
		parcels = []domain.Parcel{}
	}
	return parcels, nil
}
