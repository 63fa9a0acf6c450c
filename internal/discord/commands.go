package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// Command names double as permission keys in GuildSettings.CommandRoles.
const (
	cmdCustomerCreate = "kunde_anlegen"
	cmdCustomerFile   = "akte"
	cmdInvoiceCreate  = "rechnung_erstellen"
	cmdInvoicePaid    = "rechnung_bezahlt"
	cmdInvoiceList    = "rechnungen"
	cmdLogs           = "logs_anzeigen"
	cmdTicketSetup    = "ticket_setup"
	cmdContact        = "kontakt"
	cmdSettings       = "einstellungen"
	cmdPermissions    = "rechte"
	cmdResponseAdd    = "antwort_hinzufuegen"
	cmdResponseRemove = "antwort_entfernen"
)

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdCustomerCreate,
			Description: "Legt eine neue Kundenakte an",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Name des Kunden", Required: true},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "mitglied", Description: "Discord-Mitglied", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "produkte", Description: "Produkte als Name:Preis, durch Semikolon getrennt", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "hbpay_id", Description: "HBPay-Kontonummer", Required: false},
				{Type: discordgo.ApplicationCommandOptionString, Name: "economy_id", Description: "Economy-ID", Required: false},
			},
		},
		{
			Name:        cmdCustomerFile,
			Description: "Zeigt die Kundenakte eines Mitglieds",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "mitglied", Description: "Discord-Mitglied", Required: true},
			},
		},
		{
			Name:        cmdInvoiceCreate,
			Description: "Erstellt eine neue Rechnung",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "kundennummer", Description: "Kundennummer (VN-...)", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "betrag", Description: "Betrag in Euro, leer = Monatsbeitrag", Required: false},
			},
		},
		{
			Name:        cmdInvoicePaid,
			Description: "Markiert eine Rechnung als bezahlt",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "rechnungsnummer", Description: "Rechnungsnummer (RG-...)", Required: true},
			},
		},
		{
			Name:        cmdInvoiceList,
			Description: "Listet Rechnungen auf",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "kundennummer", Description: "Nur Rechnungen dieses Kunden", Required: false},
			},
		},
		{
			Name:        cmdLogs,
			Description: "Zeigt die letzten Protokolleintraege",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "anzahl", Description: "Anzahl der Eintraege (Standard 10)", Required: false},
			},
		},
		{
			Name:        cmdTicketSetup,
			Description: "Postet ein Ticket-Panel in diesem Kanal",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "titel", Description: "Beschriftung des Buttons", Required: true},
				{
					Type: discordgo.ApplicationCommandOptionString, Name: "art", Description: "Art der Tickets", Required: true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Support", Value: "SUPPORT"},
						{Name: "Kundenkontakt", Value: "CUSTOMER_CONTACT"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "kategorie", Description: "Kategorie fuer Ticket-Kanaele", Required: false},
			},
		},
		{
			Name:        cmdContact,
			Description: "Oeffnet ein Kundenkontakt-Ticket",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "kundennummer", Description: "Kundennummer (VN-...)", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "grund", Description: "Grund der Kontaktaufnahme", Required: true},
			},
		},
		{
			Name:        cmdSettings,
			Description: "Server-Einstellungen des Bots",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "logkanal", Description: "Setzt den Protokollkanal",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "kanal", Description: "Zielkanal", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "kategorie", Description: "Setzt die Standard-Ticketkategorie",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "kanal", Description: "Kategorie", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "teamrolle", Description: "Setzt die Team-Rolle",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionRole, Name: "rolle", Description: "Rolle", Required: true},
					},
				},
			},
		},
		{
			Name:        cmdPermissions,
			Description: "Erlaubt einer Rolle die Nutzung eines Befehls",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "befehl", Description: "Befehlsname", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "rolle", Description: "Rolle", Required: true},
			},
		},
		{
			Name:        cmdResponseAdd,
			Description: "Legt eine automatische Antwort an",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "stichwort", Description: "Ausloesendes Stichwort", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "antwort", Description: "Antworttext", Required: true},
			},
		},
		{
			Name:        cmdResponseRemove,
			Description: "Entfernt eine automatische Antwort",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "stichwort", Description: "Stichwort", Required: true},
			},
		},
	}
}

func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.cfg.GuildID, cmd); err != nil {
			return err
		}
	}
	b.logger.Info("slash commands registered", zap.String("guild_id", b.cfg.GuildID))
	return nil
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		err = b.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		err = b.handleComponent(s, i)
	case discordgo.InteractionModalSubmit:
		err = b.handleModal(s, i)
	default:
		return
	}
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		if domainErr.HTTPStatus >= 500 {
			b.logger.Error("interaction failed", zap.Error(err))
		}
		_ = reply(s, i, "❌ "+userMessage(domainErr), true)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	name := i.ApplicationCommandData().Name
	if name != cmdCustomerFile {
		// Everything except the own-file lookup is a staff action.
		allowed, err := b.isAllowed(i, name)
		if err != nil {
			return err
		}
		if !allowed {
			return reply(s, i, "❌ Dir fehlt die Berechtigung für diesen Befehl.", true)
		}
	}

	switch name {
	case cmdCustomerCreate:
		return b.handleCustomerCreate(s, i)
	case cmdCustomerFile:
		return b.handleCustomerFile(s, i)
	case cmdInvoiceCreate:
		return b.handleInvoiceCreate(s, i)
	case cmdInvoicePaid:
		return b.handleInvoicePaid(s, i)
	case cmdInvoiceList:
		return b.handleInvoiceList(s, i)
	case cmdLogs:
		return b.handleLogs(s, i)
	case cmdTicketSetup:
		return b.handleTicketSetup(s, i)
	case cmdContact:
		return b.handleContact(s, i)
	case cmdSettings:
		return b.handleSettings(s, i)
	case cmdPermissions:
		return b.handlePermissions(s, i)
	case cmdResponseAdd:
		return b.handleResponseAdd(s, i)
	case cmdResponseRemove:
		return b.handleResponseRemove(s, i)
	}
	return nil
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, componentTicketOpen):
		return b.handleTicketOpenButton(s, i, strings.TrimPrefix(customID, componentTicketOpen))
	case customID == componentTicketClaim:
		return b.handleTicketClaim(s, i)
	case customID == componentTicketClose:
		return b.handleTicketClose(s, i)
	}
	return nil
}

func (b *Bot) handleModal(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.ModalSubmitData().CustomID
	if strings.HasPrefix(customID, modalTicketReason) {
		return b.handleTicketReasonModal(s, i, strings.TrimPrefix(customID, modalTicketReason))
	}
	return nil
}

// isAllowed checks command permissions: server administrators always
// pass, otherwise the member must hold the staff role or one of the
// roles granted for the command.
func (b *Bot) isAllowed(i *discordgo.InteractionCreate, command string) (bool, error) {
	if i.Member == nil {
		return false, nil
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true, nil
	}
	settings, err := b.settings.Get(context.Background(), i.GuildID)
	if err != nil {
		return false, err
	}
	allowed := settings.RolesForCommand(command)
	for _, roleID := range i.Member.Roles {
		if roleID == settings.StaffRoleID && settings.StaffRoleID != "" {
			return true, nil
		}
		for _, granted := range allowed {
			if roleID == granted {
				return true, nil
			}
		}
	}
	return false, nil
}
