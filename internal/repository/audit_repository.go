package repository

import (
	"context"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/store"
)

// AuditRepository stores the append-only activity log. Entries are never
// mutated or removed after append.
type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	Count(ctx context.Context) int
}

type auditRepository struct {
	store *store.Store
}

// NewAuditRepository builds a snapshot-backed repository.
func NewAuditRepository(s *store.Store) AuditRepository {
	return &auditRepository{store: s}
}

func (r *auditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	return r.store.Update(func(state *store.State) error {
		state.Logs = append(state.Logs, entry)
		return nil
	})
}

// Recent returns up to limit entries, newest first.
func (r *auditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var result []domain.AuditEntry
	r.store.View(func(state *store.State) {
		n := len(state.Logs)
		if limit > n {
			limit = n
		}
		result = make([]domain.AuditEntry, 0, limit)
		for i := n - 1; i >= n-limit; i-- {
			result = append(result, state.Logs[i])
		}
	})
	return result, nil
}

func (r *auditRepository) Count(ctx context.Context) int {
	count := 0
	r.store.View(func(state *store.State) {
		count = len(state.Logs)
	})
	return count
}
