package service

import (
	"context"

	"github.com/hbrp/insurance-bot/internal/clock"
	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/repository"
)

// AuditService records state-changing actions in the append-only log.
type AuditService struct {
	entries repository.AuditRepository
	clock   clock.Clock
}

// NewAuditService constructs the service.
func NewAuditService(entries repository.AuditRepository, clk clock.Clock) *AuditService {
	return &AuditService{entries: entries, clock: clk}
}

// Append records an action. ActorID is the Discord user id of the
// initiator, or domain.SystemActor for automated actions.
func (s *AuditService) Append(ctx context.Context, action domain.AuditAction, actorID string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return s.entries.Append(ctx, domain.AuditEntry{
		Timestamp: s.clock.Now(),
		Action:    action,
		ActorID:   actorID,
		Details:   details,
	})
}

// Recent returns up to limit entries, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.entries.Recent(ctx, limit)
}
