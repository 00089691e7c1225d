package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, ok := parseGuildID(s, i)
	if !ok {
		return
	}

	settings, err := f.guildSettingsService.GetOrCreateSettings(context.Background(), guildID)
	if err != nil {
		log.Errorf("Failed to load guild settings: %v", err)
		common.RespondWithError(s, i, "Failed to load settings")
		return
	}

	if err := common.RespondWithEmbed(s, i, settingsEmbed(settings), nil, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleParticipantRole handles the /settings participant-role command
func (f *Feature) handleParticipantRole(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	f.updateRole(s, i, options, "Participant role", f.guildSettingsService.UpdateParticipantRole)
}

// handleModeratorRole handles the /settings moderator-role command
func (f *Feature) handleModeratorRole(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	f.updateRole(s, i, options, "Moderator role", f.guildSettingsService.UpdateModeratorRole)
}

func (f *Feature) updateRole(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	options []*discordgo.ApplicationCommandInteractionDataOption,
	label string,
	update func(ctx context.Context, guildID int64, roleID *int64) error,
) {
	guildID, ok := parseGuildID(s, i)
	if !ok {
		return
	}

	roleID, err := optionID(options, "role")
	if err != nil {
		log.Errorf("Failed to parse role ID: %v", err)
		common.RespondWithError(s, i, "Invalid role selected")
		return
	}

	if err := update(context.Background(), guildID, roleID); err != nil {
		log.Errorf("Failed to update %s: %v", strings.ToLower(label), err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	message := fmt.Sprintf("✅ %s reset to the default", label)
	if roleID != nil {
		message = fmt.Sprintf("✅ %s updated to %s", label, common.GetRoleMention(*roleID))
	}
	respond(s, i, message)
}

// handleReviewCategory handles the /settings review-category command
func (f *Feature) handleReviewCategory(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	guildID, ok := parseGuildID(s, i)
	if !ok {
		return
	}

	categoryID, err := optionID(options, "category")
	if err != nil {
		log.Errorf("Failed to parse category ID: %v", err)
		common.RespondWithError(s, i, "Invalid category selected")
		return
	}

	if err := f.guildSettingsService.UpdateReviewCategory(context.Background(), guildID, categoryID); err != nil {
		log.Errorf("Failed to update review category: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	message := "✅ Review category reset to the default"
	if categoryID != nil {
		message = fmt.Sprintf("✅ Review tickets will be opened in <#%d>", *categoryID)
	}
	respond(s, i, message)
}

// handleCommunities handles the /settings communities command
func (f *Feature) handleCommunities(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	guildID, ok := parseGuildID(s, i)
	if !ok {
		return
	}

	communities := splitCommunities(optionString(options, "names"))

	if err := f.guildSettingsService.UpdateCommunities(context.Background(), guildID, communities); err != nil {
		log.Errorf("Failed to update communities: %v", err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	message := "✅ Communities reset to the defaults: " + strings.Join(models.DefaultCommunities, ", ")
	if len(communities) > 0 {
		message = "✅ Communities updated: " + strings.Join(communities, ", ")
	}
	respond(s, i, message)
}

func settingsEmbed(settings *models.GuildSettings) *discordgo.MessageEmbed {
	roleOr := func(id *int64, fallback string) string {
		if id == nil {
			return fallback
		}
		return common.GetRoleMention(*id)
	}

	category := "REGISTRATIONS (by name)"
	if settings.ReviewCategoryID != nil {
		category = fmt.Sprintf("<#%d>", *settings.ReviewCategoryID)
	}

	return &discordgo.MessageEmbed{
		Title: "⚙️ Tournament Settings",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Participant Role", Value: roleOr(settings.ParticipantRoleID, "Participant (by name)"), Inline: true},
			{Name: "Moderator Role", Value: roleOr(settings.ModeratorRoleID, "Moderator (by name)"), Inline: true},
			{Name: "Review Category", Value: category, Inline: true},
			{Name: "Communities", Value: common.TruncateField(strings.Join(settings.CommunityList(), "\n"))},
		},
	}
}

func parseGuildID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return 0, false
	}
	return guildID, true
}

// optionID returns the snowflake of a role or channel option, nil when absent
func optionID(options []*discordgo.ApplicationCommandInteractionDataOption, name string) (*int64, error) {
	raw := optionString(options, name)
	if raw == "" {
		return nil, nil
	}
	id, err := common.ParseUserID(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s id %q: %w", name, raw, err)
	}
	return &id, nil
}

func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name != name {
			continue
		}
		if v, ok := opt.Value.(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func splitCommunities(raw string) []string {
	var communities []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			communities = append(communities, part)
		}
	}
	return communities
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
