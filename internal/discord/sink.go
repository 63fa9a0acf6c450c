package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/hbrp/insurance-bot/internal/events"
	"github.com/hbrp/insurance-bot/internal/notify"
)

// Sink renders notifications as embeds into the configured log channel.
type Sink struct {
	session *discordgo.Session
}

// NewSink creates a Discord notification sink on an open session.
func NewSink(session *discordgo.Session) *Sink {
	return &Sink{session: session}
}

// Notify implements notify.Sink. Notifications without a resolvable
// channel are dropped silently; not every guild configures a log channel.
func (s *Sink) Notify(_ context.Context, dest notify.Destination, msg notify.Message) error {
	if dest.ChannelID == "" {
		return nil
	}
	title, color := renderKind(msg.Kind)
	fields := make([]*discordgo.MessageEmbedField, 0, len(msg.Fields))
	for _, field := range msg.Fields {
		if field.Value == "" {
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fieldLabel(field.Name),
			Value:  field.Value,
			Inline: true,
		})
	}
	_, err := s.session.ChannelMessageSendEmbed(dest.ChannelID, &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
	})
	return err
}

func renderKind(kind string) (string, int) {
	switch events.EventType(kind) {
	case events.EventCustomerCreated:
		return "📁 Neue Kundenakte", colorSuccess
	case events.EventInvoiceIssued:
		return "🧾 Rechnung erstellt", colorInfo
	case events.EventInvoicePaid:
		return "✅ Rechnung bezahlt", colorSuccess
	case events.EventInvoiceReminder:
		return "⚠️ Mahnung verschickt", colorWarning
	case events.EventTicketOpened:
		return "🎫 Ticket eröffnet", colorInfo
	case events.EventTicketClaimed:
		return "🙋 Ticket übernommen", colorInfo
	case events.EventTicketClosed:
		return "🔒 Ticket geschlossen", colorDanger
	default:
		return kind, colorInfo
	}
}

func fieldLabel(name string) string {
	switch name {
	case "customer_id":
		return "Kundennummer"
	case "customer_name":
		return "Kunde"
	case "total_monthly":
		return "Monatsbeitrag"
	case "invoice_id":
		return "Rechnungsnummer"
	case "amount":
		return "Betrag"
	case "original_amount":
		return "Ursprungsbetrag"
	case "due_date":
		return "Fällig am"
	case "stage":
		return "Mahnstufe"
	case "ticket_id":
		return "Ticket"
	case "kind":
		return "Art"
	case "channel_id":
		return "Kanal"
	case "claimed_by":
		return "Übernommen von"
	case "closed_by":
		return "Geschlossen von"
	default:
		return name
	}
}
