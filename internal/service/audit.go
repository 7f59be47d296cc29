package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FemiElu/movaa-park-api/internal/clock"
	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// AuditService exposes the read side of the audit trail. Writes happen
// inside the mutating services via appendAudit; nothing reads its own
// audit entries back to make decisions.
type AuditService struct {
	audit store.AuditStore
}

// NewAuditService constructs an AuditService backed by the given store.
func NewAuditService(audit store.AuditStore) *AuditService {
	return &AuditService{audit: audit}
}

// List returns audit entries matching the filter, newest first. Always
// returns a non-nil slice.
func (s *AuditService) List(ctx context.Context, f store.AuditFilter) ([]domain.AuditEntry, error) {
	entries, err := s.audit.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.AuditService.List: %w", err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

// appendAudit records one mutating action. An empty actor falls back to
// the system identity so automatic mutations (hold releases) are still
// attributed.
func appendAudit(ctx context.Context, audit store.AuditStore, clk clock.Clock, actor, entityType, entityID, action string, payload map[string]any) error {
	if actor == "" {
		actor = domain.ActorSystem
	}
	return audit.Append(ctx, domain.AuditEntry{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Payload:    payload,
		Actor:      actor,
		CreatedAt:  clk.Now(),
	})
}
