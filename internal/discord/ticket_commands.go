package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/service"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

func (b *Bot) handleTicketSetup(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	panel := domain.TicketPanel{
		Label:     stringOption(opts, "titel"),
		Kind:      domain.TicketKind(stringOption(opts, "art")),
		ChannelID: i.ChannelID,
	}
	if opt, ok := opts["kategorie"]; ok {
		panel.CategoryID = opt.ChannelValue(s).ID
	}

	saved, err := b.settings.AddPanel(context.Background(), i.GuildID, panel, actorID(i))
	if err != nil {
		return err
	}

	message, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎫 " + saved.Label,
			Color:       colorInfo,
			Description: "Klicke auf den Button, um ein Ticket zu eröffnen. Ein Teammitglied kümmert sich schnellstmöglich um dein Anliegen.",
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    saved.Label,
					Style:    discordgo.PrimaryButton,
					CustomID: componentTicketOpen + saved.ID,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎫"},
				},
			}},
		},
	})
	if err != nil {
		return err
	}
	if err := b.settings.SetPanelMessage(context.Background(), i.GuildID, saved.ID, message.ID); err != nil {
		return err
	}
	return reply(s, i, "✅ Ticket-Panel wurde eingerichtet.", true)
}

// handleTicketOpenButton shows a modal asking for the concern before
// the ticket channel is created.
func (b *Bot) handleTicketOpenButton(s *discordgo.Session, i *discordgo.InteractionCreate, panelID string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalTicketReason + panelID,
			Title:    "Ticket eröffnen",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "reason",
						Label:       "Worum geht es?",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "Beschreibe kurz dein Anliegen",
						Required:    true,
						MaxLength:   500,
					},
				}},
			},
		},
	})
}

func (b *Bot) handleTicketReasonModal(s *discordgo.Session, i *discordgo.InteractionCreate, panelID string) error {
	ctx := context.Background()
	panel, err := b.settings.PanelByID(ctx, i.GuildID, panelID)
	if err != nil {
		return err
	}
	reason := modalValue(i, "reason")

	settings, err := b.settings.Get(ctx, i.GuildID)
	if err != nil {
		return err
	}
	categoryID := panel.CategoryID
	if categoryID == "" {
		categoryID = settings.TicketCategoryID
	}

	channel, err := b.createTicketChannel(s, i, categoryID, settings.StaffRoleID)
	if err != nil {
		return err
	}

	input := service.TicketOpenInput{
		Kind:      panel.Kind,
		GuildID:   i.GuildID,
		ChannelID: channel.ID,
		Reason:    reason,
		OpenedBy:  actorID(i),
	}
	if panel.Kind == domain.TicketKindContact {
		customer, err := b.customers.FindByDiscordUser(ctx, actorID(i))
		if err != nil {
			// No customer file: clean the channel up again before failing.
			_, _ = s.ChannelDelete(channel.ID)
			return err
		}
		input.CustomerID = customer.ID
	}

	ticket, err := b.tickets.Open(ctx, input)
	if err != nil {
		_, _ = s.ChannelDelete(channel.ID)
		return err
	}

	if _, err := s.ChannelMessageSendComplex(channel.ID, ticketIntro(ticket)); err != nil {
		b.logger.Warn("failed to post ticket intro")
	}
	return reply(s, i, fmt.Sprintf("✅ Dein Ticket wurde eröffnet: <#%s>", channel.ID), true)
}

func (b *Bot) handleContact(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := options(i)
	customerID := stringOption(opts, "kundennummer")
	reason := stringOption(opts, "grund")

	settings, err := b.settings.Get(ctx, i.GuildID)
	if err != nil {
		return err
	}
	channel, err := b.createTicketChannel(s, i, settings.TicketCategoryID, settings.StaffRoleID)
	if err != nil {
		return err
	}

	ticket, err := b.tickets.Open(ctx, service.TicketOpenInput{
		Kind:       domain.TicketKindContact,
		GuildID:    i.GuildID,
		ChannelID:  channel.ID,
		CustomerID: customerID,
		Reason:     reason,
		OpenedBy:   actorID(i),
	})
	if err != nil {
		_, _ = s.ChannelDelete(channel.ID)
		return err
	}

	if _, err := s.ChannelMessageSendComplex(channel.ID, ticketIntro(ticket)); err != nil {
		b.logger.Warn("failed to post ticket intro")
	}
	return reply(s, i, fmt.Sprintf("✅ Kontakt-Ticket eröffnet: <#%s>", channel.ID), true)
}

func (b *Bot) handleTicketClaim(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ticket, err := b.tickets.Claim(context.Background(), i.ChannelID, actorID(i))
	if err != nil {
		return err
	}
	return replyEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🙋 Ticket übernommen",
		Color:       colorSuccess,
		Description: fmt.Sprintf("<@%s> kümmert sich um dieses Ticket.", ticket.ClaimedBy),
	}, false)
}

func (b *Bot) handleTicketClose(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ticket, err := b.tickets.Close(context.Background(), i.ChannelID, actorID(i))
	if err != nil {
		return err
	}
	if err := replyEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🔒 Ticket geschlossen",
		Color:       colorDanger,
		Description: fmt.Sprintf("Geschlossen von <@%s>. Der Kanal wird entfernt.", ticket.ClosedBy),
	}, false); err != nil {
		return err
	}
	_, err = s.ChannelDelete(i.ChannelID)
	return err
}

// createTicketChannel creates a private channel visible to the opener
// and the staff role.
func (b *Bot) createTicketChannel(s *discordgo.Session, i *discordgo.InteractionCreate, categoryID, staffRoleID string) (*discordgo.Channel, error) {
	opener := actorID(i)
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   i.GuildID, // @everyone
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    opener,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
	if staffRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    staffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		})
	}

	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 "ticket-" + opener,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             categoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return channel, nil
}

func ticketIntro(ticket *domain.Ticket) *discordgo.MessageSend {
	kindLabel := "Support"
	if ticket.Kind == domain.TicketKindContact {
		kindLabel = "Kundenkontakt"
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "Ticket", Value: ticket.ID, Inline: true},
		{Name: "Art", Value: kindLabel, Inline: true},
	}
	if ticket.CustomerID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Kundennummer", Value: ticket.CustomerID, Inline: true})
	}
	if ticket.Reason != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Anliegen", Value: ticket.Reason})
	}

	// Contact tickets close directly, so they get no claim button.
	var buttons []discordgo.MessageComponent
	if ticket.Kind != domain.TicketKindContact {
		buttons = append(buttons, discordgo.Button{Label: "Übernehmen", Style: discordgo.SuccessButton, CustomID: componentTicketClaim})
	}
	buttons = append(buttons, discordgo.Button{Label: "Schließen", Style: discordgo.DangerButton, CustomID: componentTicketClose})

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎫 Neues Ticket",
			Color:       colorInfo,
			Description: fmt.Sprintf("Eröffnet von <@%s>.", ticket.OpenedBy),
			Fields:      fields,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		},
	}
}
