package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/service"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

func (b *Bot) handleInvoiceCreate(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	input := service.IssueInput{
		CustomerID: stringOption(opts, "kundennummer"),
		Actor:      actorID(i),
		GuildID:    i.GuildID,
	}
	if raw := stringOption(opts, "betrag"); raw != "" {
		amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			return apperrors.NewValidationError("invalid amount", map[string]any{"input": raw})
		}
		input.Amount = amount
	}

	invoice, err := b.invoices.Issue(context.Background(), input)
	if err != nil {
		return err
	}
	return replyEmbed(s, i, invoiceEmbed(invoice, "🧾 Rechnung erstellt", colorInfo), false)
}

func (b *Bot) handleInvoicePaid(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	invoice, err := b.invoices.Pay(context.Background(), stringOption(opts, "rechnungsnummer"), actorID(i), i.GuildID)
	if err != nil {
		return err
	}
	return replyEmbed(s, i, invoiceEmbed(invoice, "✅ Rechnung bezahlt", colorSuccess), false)
}

func (b *Bot) handleInvoiceList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	ctx := context.Background()

	var invoices []domain.Invoice
	var err error
	if customerID := stringOption(opts, "kundennummer"); customerID != "" {
		invoices, err = b.invoices.ListByCustomer(ctx, customerID)
	} else {
		invoices, err = b.invoices.List(ctx)
	}
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		return reply(s, i, "Keine Rechnungen gefunden.", true)
	}

	// Newest first, capped so the embed stays under Discord's limits.
	const maxRows = 20
	lines := make([]string, 0, maxRows)
	for idx := len(invoices) - 1; idx >= 0 && len(lines) < maxRows; idx-- {
		invoice := invoices[idx]
		lines = append(lines, fmt.Sprintf("%s `%s` %s – %s (%s)",
			stageIcon(invoice.Stage()), invoice.ID, invoice.CustomerID,
			formatEuro(invoice.Amount), stageLabel(invoice.Stage())))
	}

	return replyEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🧾 Rechnungsübersicht",
		Color:       colorInfo,
		Description: strings.Join(lines, "\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d Rechnungen insgesamt", len(invoices))},
	}, true)
}

func (b *Bot) handleLogs(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	limit := 10
	if opt, ok := opts["anzahl"]; ok {
		limit = int(opt.IntValue())
		if limit <= 0 || limit > 25 {
			return apperrors.NewValidationError("count must be between 1 and 25", nil)
		}
	}

	entries, err := b.audit.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return reply(s, i, "Noch keine Protokolleinträge vorhanden.", true)
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		actor := "System"
		if entry.ActorID != domain.SystemActor {
			actor = "<@" + entry.ActorID + ">"
		}
		lines = append(lines, fmt.Sprintf("`%s` **%s** – %s",
			entry.Timestamp.Format("02.01.2006 15:04"), entry.Action, actor))
	}

	return replyEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "📜 Protokoll",
		Color:       colorInfo,
		Description: strings.Join(lines, "\n"),
	}, true)
}

func invoiceEmbed(invoice *domain.Invoice, title string, color int) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Rechnungsnummer", Value: invoice.ID, Inline: true},
		{Name: "Kundennummer", Value: invoice.CustomerID, Inline: true},
		{Name: "Betrag", Value: formatEuro(invoice.Amount), Inline: true},
		{Name: "Fällig am", Value: invoice.DueDate.Format("02.01.2006"), Inline: true},
		{Name: "Status", Value: stageLabel(invoice.Stage()), Inline: true},
	}
	if invoice.ReminderCount > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Ursprungsbetrag", Value: formatEuro(invoice.OriginalAmount), Inline: true,
		})
	}
	return &discordgo.MessageEmbed{Title: title, Color: color, Fields: fields}
}

func stageLabel(stage domain.InvoiceStage) string {
	switch stage {
	case domain.StagePaid:
		return "Bezahlt"
	case domain.StageOverdueR1:
		return "1. Mahnung"
	case domain.StageOverdueR2:
		return "2. Mahnung (+5%)"
	case domain.StageOverdueR3:
		return "3. Mahnung (+10%)"
	default:
		return "Offen"
	}
}

func stageIcon(stage domain.InvoiceStage) string {
	switch stage {
	case domain.StagePaid:
		return "✅"
	case domain.StageOverdueR1, domain.StageOverdueR2, domain.StageOverdueR3:
		return "⚠️"
	default:
		return "🕓"
	}
}
