package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleSettings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return nil
	}
	sub := data.Options[0]
	opts := options(i)
	ctx := context.Background()

	switch sub.Name {
	case "logkanal":
		channel := opts["kanal"].ChannelValue(s)
		if err := b.settings.SetLogChannel(ctx, i.GuildID, channel.ID, actorID(i)); err != nil {
			return err
		}
		return reply(s, i, fmt.Sprintf("✅ Protokollkanal ist jetzt <#%s>.", channel.ID), true)
	case "kategorie":
		channel := opts["kanal"].ChannelValue(s)
		if err := b.settings.SetTicketCategory(ctx, i.GuildID, channel.ID, actorID(i)); err != nil {
			return err
		}
		return reply(s, i, "✅ Ticketkategorie gespeichert.", true)
	case "teamrolle":
		role := opts["rolle"].RoleValue(s, i.GuildID)
		if err := b.settings.SetStaffRole(ctx, i.GuildID, role.ID, actorID(i)); err != nil {
			return err
		}
		return reply(s, i, fmt.Sprintf("✅ Teamrolle ist jetzt <@&%s>.", role.ID), true)
	}
	return nil
}

func (b *Bot) handlePermissions(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	command := strings.TrimPrefix(stringOption(opts, "befehl"), "/")
	role := opts["rolle"].RoleValue(s, i.GuildID)

	settings, err := b.settings.Get(context.Background(), i.GuildID)
	if err != nil {
		return err
	}
	roles := settings.RolesForCommand(command)
	for _, existing := range roles {
		if existing == role.ID {
			return reply(s, i, "Diese Rolle darf den Befehl bereits nutzen.", true)
		}
	}
	roles = append(roles, role.ID)
	if err := b.settings.SetCommandRoles(context.Background(), i.GuildID, command, roles, actorID(i)); err != nil {
		return err
	}
	return reply(s, i, fmt.Sprintf("✅ <@&%s> darf jetzt `/%s` nutzen.", role.ID, command), true)
}

func (b *Bot) handleResponseAdd(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	keyword := stringOption(opts, "stichwort")
	answer := stringOption(opts, "antwort")
	if err := b.settings.AddResponse(context.Background(), i.GuildID, keyword, answer, actorID(i)); err != nil {
		return err
	}
	return reply(s, i, fmt.Sprintf("✅ Automatische Antwort für `%s` gespeichert.", keyword), true)
}

func (b *Bot) handleResponseRemove(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	keyword := stringOption(opts, "stichwort")
	if err := b.settings.RemoveResponse(context.Background(), i.GuildID, keyword, actorID(i)); err != nil {
		return err
	}
	return reply(s, i, fmt.Sprintf("✅ Automatische Antwort für `%s` entfernt.", keyword), true)
}

// onMessageCreate answers messages that contain a configured keyword.
// Bot messages are ignored so two bots cannot loop each other.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	response, err := b.settings.LookupResponse(context.Background(), m.GuildID, m.Content)
	if err != nil || response == nil {
		return
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, response.Reply, m.Reference()); err != nil {
		b.logger.Warn("failed to send canned response")
	}
}
