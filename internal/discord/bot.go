package discord

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/config"
	"github.com/hbrp/insurance-bot/internal/service"
)

// Bot wires the Discord gateway to the core services. It is pure glue:
// every interaction is translated into a service call and the result
// rendered back as an embed.
type Bot struct {
	session   *discordgo.Session
	cfg       config.DiscordConfig
	logger    *zap.Logger
	customers *service.CustomerService
	invoices  *service.InvoiceService
	tickets   *service.TicketService
	settings  *service.SettingsService
	audit     *service.AuditService
}

// Dependencies bundles the services the bot surfaces.
type Dependencies struct {
	Customers *service.CustomerService
	Invoices  *service.InvoiceService
	Tickets   *service.TicketService
	Settings  *service.SettingsService
	Audit     *service.AuditService
}

// NewBot creates a gateway session without opening it.
func NewBot(cfg config.DiscordConfig, logger *zap.Logger, deps Dependencies) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Bot{
		session:   session,
		cfg:       cfg,
		logger:    logger,
		customers: deps.Customers,
		invoices:  deps.Invoices,
		tickets:   deps.Tickets,
		settings:  deps.Settings,
		audit:     deps.Audit,
	}, nil
}

// Session exposes the underlying gateway session for the notification sink.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Start opens the gateway connection and registers commands and handlers.
func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onMessageCreate)

	if err := b.session.Open(); err != nil {
		return err
	}
	return b.registerCommands()
}

// Stop closes the gateway connection.
func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		b.logger.Warn("failed to close discord session", zap.Error(err))
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord gateway ready",
		zap.String("username", r.User.Username),
		zap.Int("guilds", len(r.Guilds)))
}
