package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// Embed colors match the severity scheme of the notification sink.
const (
	colorInfo    = 0x3498DB
	colorSuccess = 0x2ECC71
	colorWarning = 0xE67E22
	colorDanger  = 0xE74C3C
)

const (
	componentTicketOpen  = "ticket_open:"
	componentTicketClaim = "ticket_claim"
	componentTicketClose = "ticket_close"
	modalTicketReason    = "ticket_reason:"
)

func actorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func reply(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func replyEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// options flattens command (or subcommand) options into a name map.
func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		opts = opts[0].Options
	}
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		out[opt.Name] = opt
	}
	return out
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

// modalValue pulls a text input value out of a modal submission.
func modalValue(i *discordgo.InteractionCreate, customID string) string {
	for _, row := range i.ModalSubmitData().Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			input, ok := component.(*discordgo.TextInput)
			if ok && input.CustomID == customID {
				return strings.TrimSpace(input.Value)
			}
		}
	}
	return ""
}

func formatEuro(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " €"
}

// userMessage maps a domain error to a German user-facing line; the
// structured message stays English for the logs.
func userMessage(err *apperrors.DomainError) string {
	switch err.Code {
	case "NOT_FOUND":
		return "Der angegebene Datensatz wurde nicht gefunden."
	case "ALREADY_PAID":
		return "Diese Rechnung ist bereits bezahlt."
	case "VALIDATION_FAILED":
		return fmt.Sprintf("Ungültige Eingabe: %s", err.Message)
	case "CONFLICT":
		return fmt.Sprintf("Aktion nicht möglich: %s", err.Message)
	default:
		return "Ein interner Fehler ist aufgetreten. Bitte versuche es später erneut."
	}
}
