package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hbrp/insurance-bot/internal/api/http"
	"github.com/hbrp/insurance-bot/internal/api/http/handlers"
	"github.com/hbrp/insurance-bot/internal/auth"
	"github.com/hbrp/insurance-bot/internal/clock"
	"github.com/hbrp/insurance-bot/internal/config"
	"github.com/hbrp/insurance-bot/internal/discord"
	"github.com/hbrp/insurance-bot/internal/events"
	"github.com/hbrp/insurance-bot/internal/idgen"
	"github.com/hbrp/insurance-bot/internal/notify"
	"github.com/hbrp/insurance-bot/internal/observability"
	"github.com/hbrp/insurance-bot/internal/persistence"
	"github.com/hbrp/insurance-bot/internal/repository"
	"github.com/hbrp/insurance-bot/internal/service"
	"github.com/hbrp/insurance-bot/internal/store"
	"github.com/hbrp/insurance-bot/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A corrupt snapshot aborts startup; running on a fresh state would
	// silently discard the community's records.
	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		logger.Fatal("failed to open state store", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	customerRepo := repository.NewCustomerRepository(st)
	invoiceRepo := repository.NewInvoiceRepository(st)
	ticketRepo := repository.NewTicketRepository(st)
	auditRepo := repository.NewAuditRepository(st)
	settingsRepo := repository.NewSettingsRepository(st)

	clk := clock.System()
	ids := idgen.New()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	events.NewRedisMirror(redis, cfg.Redis.EventChannel, logger).RegisterAll(dispatcher)

	auditService := service.NewAuditService(auditRepo, clk)
	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo: customerRepo,
		Audit:        auditService,
		IDs:          ids,
		Clock:        clk,
		Dispatcher:   dispatcher,
	})
	invoiceService := service.NewInvoiceService(service.InvoiceDependencies{
		InvoiceRepo:  invoiceRepo,
		CustomerRepo: customerRepo,
		Audit:        auditService,
		IDs:          ids,
		Clock:        clk,
		Dispatcher:   dispatcher,
		Logger:       logger,
		Metrics:      metrics,
		GracePeriod:  cfg.Sweep.GracePeriod(),
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		Audit:        auditService,
		Clock:        clk,
		Dispatcher:   dispatcher,
	})
	settingsService := service.NewSettingsService(settingsRepo, auditService)

	bot, err := discord.NewBot(cfg.Discord, logger, discord.Dependencies{
		Customers: customerService,
		Invoices:  invoiceService,
		Tickets:   ticketService,
		Settings:  settingsService,
		Audit:     auditService,
	})
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}

	sinks := []notify.Sink{discord.NewSink(bot.Session())}
	if cfg.Notification.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.Notification.WebhookURL))
	}
	notificationService := service.NewNotificationService(dispatcher, settingsRepo, logger, metrics, sinks...)
	notificationService.RegisterHandlers()

	if err := bot.Start(); err != nil {
		logger.Fatal("failed to start discord bot", zap.Error(err))
	}
	defer bot.Stop()

	sweeper := worker.NewSweepWorker(invoiceService, cfg.Sweep.Interval, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	authService := service.NewAuthService(cfg.Auth)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st),
		Admin:          handlers.NewAdminHandler(authService, customerService, invoiceService, auditService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("insurance bot running",
		zap.String("addr", cfg.App.Addr()),
		zap.Duration("sweep_interval", cfg.Sweep.Interval))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
