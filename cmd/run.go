package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/haliguyr1-cmyk/RRTournament/api"
	"github.com/haliguyr1-cmyk/RRTournament/bot"
	"github.com/haliguyr1-cmyk/RRTournament/bot/features/registration"
	"github.com/haliguyr1-cmyk/RRTournament/config"
	"github.com/haliguyr1-cmyk/RRTournament/database"
	"github.com/haliguyr1-cmyk/RRTournament/events"
	"github.com/haliguyr1-cmyk/RRTournament/infrastructure"
	"github.com/haliguyr1-cmyk/RRTournament/repository"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	"github.com/haliguyr1-cmyk/RRTournament/session"
	log "github.com/sirupsen/logrus"
)

const (
	sweepInterval = time.Minute
	staleInterval = time.Hour
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	cfg.ConfigureLogging()
	log.WithField("environment", cfg.Environment).Info("Starting tournament registration bot...")

	// Initialize database connection
	databaseURL := cfg.GetDatabaseURL()
	log.Info("Running database migrations...")
	if err := database.MigrateUp(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()

	// Forward committed registration events to NATS when configured
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		if err := natsClient.EnsureRegistrationStream(); err != nil {
			return fmt.Errorf("failed to ensure registration stream: %w", err)
		}
		infrastructure.NewEventForwarder(natsClient).Register(eventBus)
		log.Info("Registration events will be forwarded to NATS")
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// The gateway needs the Discord session, which must exist before the services
	dg, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	settingsService := service.NewGuildSettingsService(uowFactory)
	gateway := registration.NewGateway(dg, settingsService, registration.GatewayConfig{
		ReviewCategoryName:  cfg.ReviewCategoryName,
		ParticipantRoleName: cfg.ParticipantRoleName,
		ModeratorRoleName:   cfg.ModeratorRoleName,
	})
	submissionService := service.NewSubmissionService(uowFactory, gateway)
	services := bot.Services{
		Workflow:    service.NewApprovalWorkflow(uowFactory, gateway, gateway),
		Submissions: submissionService,
		Settings:    settingsService,
		Roster:      service.NewRosterService(uowFactory),
	}

	drafts := session.NewStore[registration.Draft](cfg.SessionTTL)

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}, dg, services, gateway, drafts)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	defer func() {
		if err := discordBot.Close(); err != nil {
			log.Errorf("Error closing Discord bot: %v", err)
		}
	}()

	// Background jobs
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := drafts.ScheduleSweep(scheduler, "registration-drafts", sweepInterval); err != nil {
		return fmt.Errorf("failed to schedule draft sweep: %w", err)
	}
	reminder := bot.NewStaleReminder(service.NewStaleRegistrationService(uowFactory, cfg.StalePendingAfter), dg)
	if err := reminder.Schedule(scheduler, staleInterval); err != nil {
		return fmt.Errorf("failed to schedule stale registration check: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Errorf("Error stopping scheduler: %v", err)
		}
	}()

	// Browser intake API
	apiErr := make(chan error, 1)
	if cfg.APIAddr != "" {
		server := api.NewServer(submissionService, settingsService, cfg.APIGuildID)
		if natsClient != nil {
			server.AddHealthCheck("nats", natsClient.IsConnected)
		}
		go func() {
			apiErr <- server.Listen(ctx, cfg.APIAddr)
		}()
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-apiErr:
		if err != nil {
			return fmt.Errorf("intake server failed: %w", err)
		}
	}

	log.Info("Shutting down...")
	return nil
}
