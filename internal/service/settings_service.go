package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/repository"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// SettingsService manages per-guild configuration: log channel, ticket
// panels, command permissions and canned responses.
type SettingsService struct {
	settings repository.SettingsRepository
	audit    *AuditService
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository, audit *AuditService) *SettingsService {
	return &SettingsService{settings: settings, audit: audit}
}

// Get returns the guild's settings.
func (s *SettingsService) Get(ctx context.Context, guildID string) (domain.GuildSettings, error) {
	return s.settings.Get(ctx, guildID)
}

// SetLogChannel updates where activity notifications are posted.
func (s *SettingsService) SetLogChannel(ctx context.Context, guildID, channelID, actor string) error {
	return s.mutate(ctx, guildID, actor, map[string]any{"log_channel_id": channelID},
		func(settings *domain.GuildSettings) error {
			settings.LogChannelID = channelID
			return nil
		})
}

// SetTicketCategory updates the category ticket channels are created in.
func (s *SettingsService) SetTicketCategory(ctx context.Context, guildID, categoryID, actor string) error {
	return s.mutate(ctx, guildID, actor, map[string]any{"ticket_category_id": categoryID},
		func(settings *domain.GuildSettings) error {
			settings.TicketCategoryID = categoryID
			return nil
		})
}

// SetStaffRole updates the role allowed to work tickets.
func (s *SettingsService) SetStaffRole(ctx context.Context, guildID, roleID, actor string) error {
	return s.mutate(ctx, guildID, actor, map[string]any{"staff_role_id": roleID},
		func(settings *domain.GuildSettings) error {
			settings.StaffRoleID = roleID
			return nil
		})
}

// AddPanel registers a ticket panel and returns it with a generated id.
func (s *SettingsService) AddPanel(ctx context.Context, guildID string, panel domain.TicketPanel, actor string) (*domain.TicketPanel, error) {
	if strings.TrimSpace(panel.Label) == "" {
		return nil, apperrors.NewValidationError("panel label required", nil)
	}
	if panel.Kind != domain.TicketKindSupport && panel.Kind != domain.TicketKindContact {
		return nil, apperrors.NewValidationError("unknown panel kind", map[string]any{"kind": string(panel.Kind)})
	}
	panel.ID = uuid.NewString()

	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	settings.Panels = append(settings.Panels, panel)
	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, domain.ActionPanelSetup, actor, map[string]any{
		"panel_id":   panel.ID,
		"label":      panel.Label,
		"kind":       string(panel.Kind),
		"channel_id": panel.ChannelID,
	}); err != nil {
		return nil, err
	}
	return &panel, nil
}

// PanelByID looks a panel up in the guild's settings.
func (s *SettingsService) PanelByID(ctx context.Context, guildID, panelID string) (*domain.TicketPanel, error) {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for _, panel := range settings.Panels {
		if panel.ID == panelID {
			return &panel, nil
		}
	}
	return nil, apperrors.NewNotFound("panel", map[string]any{"panel_id": panelID})
}

// SetPanelMessage records the posted panel message id.
func (s *SettingsService) SetPanelMessage(ctx context.Context, guildID, panelID, messageID string) error {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return err
	}
	for i := range settings.Panels {
		if settings.Panels[i].ID == panelID {
			settings.Panels[i].MessageID = messageID
			return s.settings.Save(ctx, settings)
		}
	}
	return apperrors.NewNotFound("panel", map[string]any{"panel_id": panelID})
}

// SetCommandRoles replaces the role allow-list for a command.
func (s *SettingsService) SetCommandRoles(ctx context.Context, guildID, command string, roleIDs []string, actor string) error {
	if strings.TrimSpace(command) == "" {
		return apperrors.NewValidationError("command name required", nil)
	}
	return s.mutate(ctx, guildID, actor, map[string]any{"command": command, "roles": roleIDs},
		func(settings *domain.GuildSettings) error {
			if settings.CommandRoles == nil {
				settings.CommandRoles = map[string][]string{}
			}
			settings.CommandRoles[command] = roleIDs
			return nil
		})
}

// AddResponse appends a canned response keyed by keyword.
func (s *SettingsService) AddResponse(ctx context.Context, guildID, keyword, reply, actor string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || strings.TrimSpace(reply) == "" {
		return apperrors.NewValidationError("keyword and reply required", nil)
	}

	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return err
	}
	for _, response := range settings.Responses {
		if strings.EqualFold(response.Keyword, keyword) {
			return apperrors.NewConflict("keyword already configured", map[string]any{"keyword": keyword})
		}
	}
	settings.Responses = append(settings.Responses, domain.CannedResponse{Keyword: keyword, Reply: reply})
	if err := s.settings.Save(ctx, settings); err != nil {
		return err
	}
	return s.audit.Append(ctx, domain.ActionResponseAdded, actor, map[string]any{"keyword": keyword})
}

// RemoveResponse deletes a canned response by keyword.
func (s *SettingsService) RemoveResponse(ctx context.Context, guildID, keyword, actor string) error {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return err
	}
	kept := make([]domain.CannedResponse, 0, len(settings.Responses))
	removed := false
	for _, response := range settings.Responses {
		if strings.EqualFold(response.Keyword, keyword) {
			removed = true
			continue
		}
		kept = append(kept, response)
	}
	if !removed {
		return apperrors.NewNotFound("response", map[string]any{"keyword": keyword})
	}
	settings.Responses = kept
	if err := s.settings.Save(ctx, settings); err != nil {
		return err
	}
	return s.audit.Append(ctx, domain.ActionResponseRemoved, actor, map[string]any{"keyword": keyword})
}

// LookupResponse finds the first canned response whose keyword occurs in
// the message, case-insensitively. It returns nil when nothing matches.
func (s *SettingsService) LookupResponse(ctx context.Context, guildID, message string) (*domain.CannedResponse, error) {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	lowered := strings.ToLower(message)
	for _, response := range settings.Responses {
		if strings.Contains(lowered, strings.ToLower(response.Keyword)) {
			r := response
			return &r, nil
		}
	}
	return nil, nil
}

func (s *SettingsService) mutate(ctx context.Context, guildID, actor string, details map[string]any, fn func(*domain.GuildSettings) error) error {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if err := fn(&settings); err != nil {
		return err
	}
	if err := s.settings.Save(ctx, settings); err != nil {
		return err
	}
	return s.audit.Append(ctx, domain.ActionSettingsUpdated, actor, details)
}
