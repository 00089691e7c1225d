package settings

import (
	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/service"
)

// Feature handles guild settings management
type Feature struct {
	guildSettingsService service.GuildSettingsService
}

// NewFeature creates a new settings feature instance
func NewFeature(guildSettingsService service.GuildSettingsService) *Feature {
	return &Feature{
		guildSettingsService: guildSettingsService,
	}
}

// HandleCommand routes settings commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	if !common.IsUserAdmin(s, i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	switch options[0].Name {
	case "show":
		f.handleShow(s, i)
	case "participant-role":
		f.handleParticipantRole(s, i, options[0].Options)
	case "moderator-role":
		f.handleModeratorRole(s, i, options[0].Options)
	case "review-category":
		f.handleReviewCategory(s, i, options[0].Options)
	case "communities":
		f.handleCommunities(s, i, options[0].Options)
	}
}

// Command returns the /settings definition
func Command() *discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionManageGuild)

	return &discordgo.ApplicationCommand{
		Name:                     "settings",
		Description:              "Configure tournament settings (admin only)",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Show the current tournament settings",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "participant-role",
				Description: "Set the role granted when a registration is approved",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to grant (leave empty to use the role named Participant)",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "moderator-role",
				Description: "Set the role that reviews registrations",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Reviewer role (leave empty to use the role named Moderator)",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "review-category",
				Description: "Set the category registration tickets are opened in",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "category",
						Description:  "Ticket category (leave empty to look up REGISTRATIONS)",
						Required:     false,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "communities",
				Description: "Set the communities players can register under",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "names",
						Description: "Comma separated community names (leave empty for the defaults)",
						Required:    false,
					},
				},
			},
		},
	}
}
