package registration

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	"github.com/haliguyr1-cmyk/RRTournament/session"
)

// Feature handles /register, its draft controls and the review buttons
type Feature struct {
	workflow    service.ApprovalWorkflow
	submissions service.SubmissionService
	settings    service.GuildSettingsService
	gateway     *Gateway
	drafts      *session.Store[Draft]
}

// NewFeature creates a new registration feature instance
func NewFeature(
	workflow service.ApprovalWorkflow,
	submissions service.SubmissionService,
	settings service.GuildSettingsService,
	gateway *Gateway,
	drafts *session.Store[Draft],
) *Feature {
	return &Feature{
		workflow:    workflow,
		submissions: submissions,
		settings:    settings,
		gateway:     gateway,
		drafts:      drafts,
	}
}

// HandleCommand routes /register sub-commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	sub := "start"
	if len(options) > 0 {
		sub = options[0].Name
	}

	switch sub {
	case "start":
		f.handleStart(s, i)
	case "import":
		f.handleImport(s, i)
	}
}

// HandlesComponent reports whether a component custom id belongs to this feature
func HandlesComponent(customID string) bool {
	if _, ok := service.ParseButtonAction(customID); ok {
		return true
	}
	return strings.HasPrefix(customID, draftPrefix)
}

// HandleComponent routes button presses
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if action, ok := service.ParseButtonAction(customID); ok {
		f.handleReviewButton(s, i, action)
		return
	}

	switch customID {
	case customIDStats:
		f.handleStatsButton(s, i)
	case customIDAddCard:
		f.handleAddCardButton(s, i)
	case customIDSubmit:
		f.handleSubmit(s, i)
	case customIDCancel:
		f.handleCancel(s, i)
	}
}

// HandleModal routes modal submissions
func (f *Feature) HandleModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ModalSubmitData().CustomID {
	case modalProfile:
		f.handleProfileModal(s, i)
	case modalStats:
		f.handleStatsModal(s, i)
	case modalCard:
		f.handleCardModal(s, i)
	case modalImport:
		f.handleImportModal(s, i)
	}
}

// Command returns the /register definition
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "register",
		Description: "Register for the tournament",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "Fill in your registration step by step",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "import",
				Description: "Register with an export code from a previous registration",
			},
		},
	}
}
