package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/features/registration"
	"github.com/haliguyr1-cmyk/RRTournament/bot/features/roster"
	"github.com/haliguyr1-cmyk/RRTournament/bot/features/settings"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	"github.com/haliguyr1-cmyk/RRTournament/session"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // Commands are registered to this guild when set, globally otherwise
}

// Services are the application services the bot features call
type Services struct {
	Workflow    service.ApprovalWorkflow
	Submissions service.SubmissionService
	Settings    service.GuildSettingsService
	Roster      service.RosterService
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	commands []*discordgo.ApplicationCommand

	// Features
	registrationFeature *registration.Feature
	settingsFeature     *settings.Feature
	rosterFeature       *roster.Feature
}

// NewSession creates the Discord session the gateway and the bot share
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsDirectMessages
	return dg, nil
}

// New wires the features onto the session, opens the connection and
// registers the slash commands
func New(config Config, dg *discordgo.Session, services Services, gateway *registration.Gateway, drafts *session.Store[registration.Draft]) (*Bot, error) {
	bot := &Bot{
		config:              config,
		session:             dg,
		registrationFeature: registration.NewFeature(services.Workflow, services.Submissions, services.Settings, gateway, drafts),
		settingsFeature:     settings.NewFeature(services.Settings),
		rosterFeature:       roster.NewFeature(services.Roster),
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleInteraction)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close removes guild-scoped commands and closes the connection
func (b *Bot) Close() error {
	if b.config.GuildID != "" {
		for _, cmd := range b.commands {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
				log.WithFields(log.Fields{
					"command": cmd.Name,
					"error":   err,
				}).Warn("Failed to delete command")
			}
		}
	}
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Discord session ready")
}
