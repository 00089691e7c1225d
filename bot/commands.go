package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/bot/features/registration"
	"github.com/haliguyr1-cmyk/RRTournament/bot/features/roster"
	"github.com/haliguyr1-cmyk/RRTournament/bot/features/settings"
	log "github.com/sirupsen/logrus"
)

// Commands returns every slash command the bot serves
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		registration.Command(),
		roster.Command(),
		settings.Command(),
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
	}

	log.WithField("count", len(b.commands)).Info("Registered slash commands")
	return nil
}

// handleInteraction routes every interaction to the feature that owns it
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"interaction": common.InteractionName(i),
				"panic":       r,
			}).Error("Recovered from panic in interaction handler")
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		if registration.HandlesComponent(i.MessageComponentData().CustomID) {
			b.registrationFeature.HandleComponent(s, i)
		}
	case discordgo.InteractionModalSubmit:
		b.registrationFeature.HandleModal(s, i)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "register":
		b.registrationFeature.HandleCommand(s, i)
	case "roster":
		b.rosterFeature.HandleCommand(s, i)
	case "settings":
		b.settingsFeature.HandleCommand(s, i)
	}
}
