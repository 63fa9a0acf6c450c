package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/service"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

func TestTicketOpen_Support(t *testing.T) {
	f := newFixture(t)

	ticket, err := f.tickets.Open(context.Background(), service.TicketOpenInput{
		Kind:      domain.TicketKindSupport,
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		OpenedBy:  "1001",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^TCK-[A-Z0-9]{8}$`, ticket.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestTicketOpen_ContactRequiresReasonAndCustomer(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	ctx := context.Background()

	_, err := f.tickets.Open(ctx, service.TicketOpenInput{
		Kind:       domain.TicketKindContact,
		CustomerID: customer.ID,
		OpenedBy:   "1001",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.tickets.Open(ctx, service.TicketOpenInput{
		Kind:       domain.TicketKindContact,
		CustomerID: "VN-26999999",
		Reason:     "Beitragsfrage",
		OpenedBy:   "1001",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	ticket, err := f.tickets.Open(ctx, service.TicketOpenInput{
		Kind:       domain.TicketKindContact,
		GuildID:    "guild-1",
		ChannelID:  "chan-1",
		CustomerID: customer.ID,
		Reason:     "Beitragsfrage",
		OpenedBy:   "1001",
	})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, ticket.CustomerID)
}

func TestTicketLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tickets.Open(ctx, service.TicketOpenInput{
		Kind:      domain.TicketKindSupport,
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		OpenedBy:  "1001",
	})
	require.NoError(t, err)

	claimed, err := f.tickets.Claim(ctx, "chan-1", "2002")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClaimed, claimed.Status)
	assert.Equal(t, "2002", claimed.ClaimedBy)

	// A claimed ticket cannot be claimed a second time.
	_, err = f.tickets.Claim(ctx, "chan-1", "3003")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	closed, err := f.tickets.Close(ctx, "chan-1", "2002")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	_, err = f.tickets.Close(ctx, "chan-1", "2002")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestTicketClaim_RejectsContactTickets(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	ctx := context.Background()

	_, err := f.tickets.Open(ctx, service.TicketOpenInput{
		Kind:       domain.TicketKindContact,
		GuildID:    "guild-1",
		ChannelID:  "chan-1",
		CustomerID: customer.ID,
		Reason:     "Beitragsfrage",
		OpenedBy:   "1001",
	})
	require.NoError(t, err)

	_, err = f.tickets.Claim(ctx, "chan-1", "2002")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	// Contact tickets close directly instead.
	closed, err := f.tickets.Close(ctx, "chan-1", "2002")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)
}

func TestTicketListOpen_FiltersClosedAndOtherGuilds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		guild   string
		channel string
	}{
		{"guild-1", "chan-1"},
		{"guild-1", "chan-2"},
		{"guild-2", "chan-3"},
	} {
		_, err := f.tickets.Open(ctx, service.TicketOpenInput{
			Kind:      domain.TicketKindSupport,
			GuildID:   tc.guild,
			ChannelID: tc.channel,
			OpenedBy:  "1001",
		})
		require.NoError(t, err)
	}
	_, err := f.tickets.Close(ctx, "chan-2", "2002")
	require.NoError(t, err)

	open, err := f.tickets.ListOpen(ctx, "guild-1")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "chan-1", open[0].ChannelID)
}
