package repository

import (
	"context"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/store"
)

// SettingsRepository stores per-guild configuration.
type SettingsRepository interface {
	Get(ctx context.Context, guildID string) (domain.GuildSettings, error)
	Save(ctx context.Context, settings domain.GuildSettings) error
}

type settingsRepository struct {
	store *store.Store
}

// NewSettingsRepository builds a snapshot-backed repository.
func NewSettingsRepository(s *store.Store) SettingsRepository {
	return &settingsRepository{store: s}
}

// Get returns the guild's settings, or zero-value settings carrying the
// guild id when none were stored yet. The returned value is a deep copy;
// callers may mutate it freely without touching the stored state.
func (r *settingsRepository) Get(ctx context.Context, guildID string) (domain.GuildSettings, error) {
	settings := domain.GuildSettings{GuildID: guildID}
	r.store.View(func(state *store.State) {
		if stored, ok := state.Settings[guildID]; ok {
			settings = copySettings(stored)
		}
	})
	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domain.GuildSettings) error {
	return r.store.Update(func(state *store.State) error {
		state.Settings[settings.GuildID] = copySettings(settings)
		return nil
	})
}

// copySettings clones the slice and map fields. Sharing a backing array
// between the store and a caller's snapshot would let an in-place filter
// or append rewrite live state outside the store mutex.
func copySettings(s domain.GuildSettings) domain.GuildSettings {
	out := s
	if s.Panels != nil {
		out.Panels = append([]domain.TicketPanel(nil), s.Panels...)
	}
	if s.Responses != nil {
		out.Responses = append([]domain.CannedResponse(nil), s.Responses...)
	}
	if s.CommandRoles != nil {
		out.CommandRoles = make(map[string][]string, len(s.CommandRoles))
		for command, roles := range s.CommandRoles {
			out.CommandRoles[command] = append([]string(nil), roles...)
		}
	}
	return out
}
