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

func (b *Bot) handleCustomerCreate(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	member := opts["mitglied"].UserValue(s)
	if member == nil {
		return apperrors.NewValidationError("member option missing", nil)
	}
	products, err := parseProducts(stringOption(opts, "produkte"))
	if err != nil {
		return err
	}

	customer, err := b.customers.Create(context.Background(), service.CustomerCreateInput{
		Name:          stringOption(opts, "name"),
		DiscordUserID: member.ID,
		HBPayID:       stringOption(opts, "hbpay_id"),
		EconomyID:     stringOption(opts, "economy_id"),
		Products:      products,
		Actor:         actorID(i),
		GuildID:       i.GuildID,
	})
	if err != nil {
		return err
	}
	return replyEmbed(s, i, customerEmbed(customer, "✅ Kundenakte angelegt", colorSuccess), false)
}

func (b *Bot) handleCustomerFile(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := options(i)
	member := opts["mitglied"].UserValue(s)
	if member == nil {
		return apperrors.NewValidationError("member option missing", nil)
	}
	customer, err := b.customers.FindByDiscordUser(context.Background(), member.ID)
	if err != nil {
		return err
	}
	return replyEmbed(s, i, customerEmbed(customer, "📁 Kundenakte", colorInfo), true)
}

// parseProducts reads "Name:Preis;Name:Preis" product lists as entered
// in the slash command.
func parseProducts(raw string) ([]domain.InsuranceProduct, error) {
	var products []domain.InsuranceProduct
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, price, found := strings.Cut(part, ":")
		if !found {
			return nil, apperrors.NewValidationError("products must be given as Name:Preis", map[string]any{"input": part})
		}
		monthly, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(price, ",", ".")))
		if err != nil {
			return nil, apperrors.NewValidationError("invalid product price", map[string]any{"input": part})
		}
		products = append(products, domain.InsuranceProduct{
			Name:         strings.TrimSpace(name),
			MonthlyPrice: monthly,
		})
	}
	return products, nil
}

func customerEmbed(customer *domain.Customer, title string, color int) *discordgo.MessageEmbed {
	productLines := make([]string, 0, len(customer.Products))
	for _, product := range customer.Products {
		productLines = append(productLines, fmt.Sprintf("• %s – %s", product.Name, formatEuro(product.MonthlyPrice)))
	}
	if len(productLines) == 0 {
		productLines = append(productLines, "–")
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Kundennummer", Value: customer.ID, Inline: true},
		{Name: "Mitglied", Value: "<@" + customer.DiscordUserID + ">", Inline: true},
		{Name: "Monatsbeitrag", Value: formatEuro(customer.TotalMonthly), Inline: true},
		{Name: "Produkte", Value: strings.Join(productLines, "\n")},
	}
	if customer.HBPayID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "HBPay", Value: customer.HBPayID, Inline: true})
	}
	if customer.EconomyID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Economy", Value: customer.EconomyID, Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: customer.Name},
	}
}
