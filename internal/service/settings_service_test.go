package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbrp/insurance-bot/internal/domain"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

func TestSettings_DefaultsAndUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings, err := f.settings.Get(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, "guild-1", settings.GuildID)
	assert.Empty(t, settings.LogChannelID)

	require.NoError(t, f.settings.SetLogChannel(ctx, "guild-1", "chan-log", "99"))
	require.NoError(t, f.settings.SetStaffRole(ctx, "guild-1", "role-staff", "99"))

	settings, err = f.settings.Get(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, "chan-log", settings.LogChannelID)
	assert.Equal(t, "role-staff", settings.StaffRoleID)
}

func TestSettings_Panels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	panel, err := f.settings.AddPanel(ctx, "guild-1", domain.TicketPanel{
		Label:     "Support",
		Kind:      domain.TicketKindSupport,
		ChannelID: "chan-panel",
	}, "99")
	require.NoError(t, err)
	require.NotEmpty(t, panel.ID)

	require.NoError(t, f.settings.SetPanelMessage(ctx, "guild-1", panel.ID, "msg-1"))

	loaded, err := f.settings.PanelByID(ctx, "guild-1", panel.ID)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", loaded.MessageID)

	_, err = f.settings.PanelByID(ctx, "guild-1", "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = f.settings.AddPanel(ctx, "guild-1", domain.TicketPanel{Label: "X", Kind: "BOGUS"}, "99")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestSettings_CommandRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.SetCommandRoles(ctx, "guild-1", "rechnung_erstellen", []string{"role-a", "role-b"}, "99"))

	settings, err := f.settings.Get(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"role-a", "role-b"}, settings.RolesForCommand("rechnung_erstellen"))
	assert.Empty(t, settings.RolesForCommand("akte"))
}

func TestSettings_CannedResponses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.AddResponse(ctx, "guild-1", "Beitrag", "Beiträge werden monatlich abgebucht.", "99"))

	// Keywords are unique, case-insensitively.
	err := f.settings.AddResponse(ctx, "guild-1", "BEITRAG", "anders", "99")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	// Lookup matches substrings regardless of case.
	response, err := f.settings.LookupResponse(ctx, "guild-1", "Wann wird mein beitrag fällig?")
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, "Beiträge werden monatlich abgebucht.", response.Reply)

	response, err = f.settings.LookupResponse(ctx, "guild-1", "Hallo zusammen")
	require.NoError(t, err)
	assert.Nil(t, response)

	require.NoError(t, f.settings.RemoveResponse(ctx, "guild-1", "beitrag", "99"))
	err = f.settings.RemoveResponse(ctx, "guild-1", "beitrag", "99")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestSettings_SnapshotsDoNotAliasStoredState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.AddResponse(ctx, "guild-1", "alpha", "Antwort A", "99"))
	require.NoError(t, f.settings.AddResponse(ctx, "guild-1", "beta", "Antwort B", "99"))

	before, err := f.settings.Get(ctx, "guild-1")
	require.NoError(t, err)

	require.NoError(t, f.settings.RemoveResponse(ctx, "guild-1", "alpha", "99"))

	// The earlier snapshot keeps its own backing array; the removal must
	// not rewrite it in place.
	require.Len(t, before.Responses, 2)
	assert.Equal(t, "alpha", before.Responses[0].Keyword)
	assert.Equal(t, "beta", before.Responses[1].Keyword)

	after, err := f.settings.Get(ctx, "guild-1")
	require.NoError(t, err)
	require.Len(t, after.Responses, 1)
	assert.Equal(t, "beta", after.Responses[0].Keyword)

	// Mutating a returned snapshot must not leak into the store either.
	after.Responses[0].Keyword = "gamma"
	after.Panels = append(after.Panels, domain.TicketPanel{ID: "rogue"})
	reread, err := f.settings.Get(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, "beta", reread.Responses[0].Keyword)
	assert.Empty(t, reread.Panels)
}

func TestSettings_LookupFirstMatchWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.AddResponse(ctx, "guild-1", "kündigung", "Kündigungen bitte per Ticket.", "99"))
	require.NoError(t, f.settings.AddResponse(ctx, "guild-1", "frist", "Die Frist beträgt 14 Tage.", "99"))

	response, err := f.settings.LookupResponse(ctx, "guild-1", "Welche Frist gilt für die Kündigung?")
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, "kündigung", response.Keyword)
}
