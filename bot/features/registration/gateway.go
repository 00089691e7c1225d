package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gosimple/slug"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	log "github.com/sirupsen/logrus"
)

// discordAPI is the subset of *discordgo.Session the gateway calls
type discordAPI interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// ErrReviewCategoryNotFound is returned when no channel category can hold review tickets
var ErrReviewCategoryNotFound = errors.New("registration review category not found")

// GatewayConfig names the guild objects looked up when settings leave them unset
type GatewayConfig struct {
	ReviewCategoryName  string
	ParticipantRoleName string
	ModeratorRoleName   string
}

// Gateway carries out registration side effects on Discord. It implements
// service.MemberDirectory, service.Notifier and service.RegistrationPoster.
type Gateway struct {
	api      discordAPI
	settings service.GuildSettingsService
	config   GatewayConfig
}

var (
	_ service.MemberDirectory    = (*Gateway)(nil)
	_ service.Notifier           = (*Gateway)(nil)
	_ service.RegistrationPoster = (*Gateway)(nil)
)

// NewGateway creates a gateway over a Discord session
func NewGateway(api discordAPI, settings service.GuildSettingsService, config GatewayConfig) *Gateway {
	return &Gateway{
		api:      api,
		settings: settings,
		config:   config,
	}
}

// ResolveUser fetches the user from Discord
func (g *Gateway) ResolveUser(ctx context.Context, guildID, discordID int64) (*service.UserInfo, error) {
	user, err := g.api.User(common.FormatUserID(discordID), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", discordID, err)
	}
	return &service.UserInfo{DiscordID: discordID, Username: user.Username}, nil
}

// GrantParticipantRole adds the configured participant role, or the role
// named after GatewayConfig.ParticipantRoleName, to the member
func (g *Gateway) GrantParticipantRole(ctx context.Context, guildID, discordID int64) error {
	settings, err := g.settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to load guild settings: %w", err)
	}

	guild := common.FormatUserID(guildID)
	roleID := ""
	if settings.ParticipantRoleID != nil {
		roleID = common.FormatUserID(*settings.ParticipantRoleID)
	} else {
		roles, err := g.api.GuildRoles(guild, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to list guild roles: %w", err)
		}
		if role := findRoleByName(roles, g.config.ParticipantRoleName); role != nil {
			roleID = role.ID
		}
	}

	if roleID == "" {
		return fmt.Errorf("no participant role configured for guild %d", guildID)
	}

	if err := g.api.GuildMemberRoleAdd(guild, common.FormatUserID(discordID), roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add participant role: %w", err)
	}
	return nil
}

// NotifyApproved DMs the registrant that they are in the tournament
func (g *Gateway) NotifyApproved(ctx context.Context, discordID int64, notice service.DecisionNotice) error {
	division := notice.Division
	if division == "" {
		division = "N/A"
	}

	return g.sendDM(ctx, discordID, &discordgo.MessageEmbed{
		Title:       "✅ Tournament Registration Approved!",
		Description: fmt.Sprintf("Your registration for **%s** has been approved!", notice.GuildName),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Division", Value: division, Inline: true},
			{Name: "Next Steps", Value: "You're all set! Watch for tournament announcements."},
		},
	})
}

// NotifyRejected DMs the registrant that their registration was not approved
func (g *Gateway) NotifyRejected(ctx context.Context, discordID int64, notice service.DecisionNotice) error {
	return g.sendDM(ctx, discordID, &discordgo.MessageEmbed{
		Title:       "❌ Tournament Registration Rejected",
		Description: fmt.Sprintf("Your registration for **%s** was not approved.", notice.GuildName),
		Color:       common.ColorDanger,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "What to do", Value: "Please contact a moderator if you have questions."},
		},
	})
}

// PostPending opens a private review ticket for the registration and posts
// its summary with review controls. The export code DM is best-effort.
func (g *Gateway) PostPending(ctx context.Context, pending *models.PendingRegistration, summary models.RegistrationSummary, exportCode string) (int64, int64, error) {
	settings, err := g.settings.GetOrCreateSettings(ctx, pending.GuildID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load guild settings: %w", err)
	}

	guild := common.FormatUserID(pending.GuildID)

	channels, err := g.api.GuildChannels(guild, discordgo.WithContext(ctx))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list guild channels: %w", err)
	}

	category := findReviewCategory(channels, settings.ReviewCategoryID, g.config.ReviewCategoryName)
	if category == nil {
		return 0, 0, ErrReviewCategoryNotFound
	}

	roles, err := g.api.GuildRoles(guild, discordgo.WithContext(ctx))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list guild roles: %w", err)
	}
	moderatorRole := g.moderatorRole(roles, settings)

	name := TicketChannelName(pending)
	channel := findChannel(channels, category.ID, name)
	if channel == nil {
		channel, err = g.api.GuildChannelCreateComplex(guild, discordgo.GuildChannelCreateData{
			Name:                 name,
			Type:                 discordgo.ChannelTypeGuildText,
			ParentID:             category.ID,
			Topic:                fmt.Sprintf("Registration review for <@%d>", pending.DiscordID),
			PermissionOverwrites: ticketOverwrites(guild, pending.DiscordID, moderatorRole, roles),
		}, discordgo.WithContext(ctx))
		if err != nil {
			return 0, 0, fmt.Errorf("failed to create ticket channel %s: %w", name, err)
		}
		log.WithFields(log.Fields{
			"guildID": pending.GuildID,
			"channel": name,
		}).Info("Created registration ticket channel")
	}

	msg, err := g.api.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content:    common.GetUserMention(pending.DiscordID),
		Embeds:     []*discordgo.MessageEmbed{SummaryToEmbed(summary)},
		Components: ReviewComponents(),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{common.FormatUserID(pending.DiscordID)},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to post registration summary: %w", err)
	}

	ping := "🔔 New registration to review!"
	if moderatorRole != nil {
		ping += " <@&" + moderatorRole.ID + ">"
	}
	if _, err := g.api.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content:         ping,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeRoles}},
	}, discordgo.WithContext(ctx)); err != nil {
		log.WithError(err).Warn("Failed to ping moderators for registration review")
	}

	if exportCode != "" {
		if err := g.sendDM(ctx, pending.DiscordID, exportCodeEmbed(exportCode)); err != nil {
			log.WithFields(log.Fields{
				"discordID": pending.DiscordID,
				"error":     err,
			}).Warn("Could not DM export code to registrant")
		}
	}

	channelID, err := common.ParseUserID(channel.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid channel id %q: %w", channel.ID, err)
	}
	messageID, err := common.ParseUserID(msg.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid message id %q: %w", msg.ID, err)
	}

	return channelID, messageID, nil
}

// CanReview reports whether a member may approve or reject registrations
func (g *Gateway) CanReview(ctx context.Context, guildID int64, member *discordgo.Member) (bool, error) {
	if member == nil {
		return false, nil
	}
	if member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageGuild) != 0 {
		return true, nil
	}

	settings, err := g.settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to load guild settings: %w", err)
	}

	roles, err := g.api.GuildRoles(common.FormatUserID(guildID), discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to list guild roles: %w", err)
	}

	moderatorRole := g.moderatorRole(roles, settings)
	if moderatorRole == nil {
		return false, nil
	}
	for _, roleID := range member.Roles {
		if roleID == moderatorRole.ID {
			return true, nil
		}
	}
	return false, nil
}

func (g *Gateway) moderatorRole(roles []*discordgo.Role, settings *models.GuildSettings) *discordgo.Role {
	if settings.ModeratorRoleID != nil {
		id := common.FormatUserID(*settings.ModeratorRoleID)
		for _, role := range roles {
			if role.ID == id {
				return role
			}
		}
	}
	return findRoleByName(roles, g.config.ModeratorRoleName)
}

func (g *Gateway) sendDM(ctx context.Context, discordID int64, embed *discordgo.MessageEmbed) error {
	dm, err := g.api.UserChannelCreate(common.FormatUserID(discordID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	if _, err := g.api.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

func exportCodeEmbed(exportCode string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Registration Submitted!",
		Description: "Your registration has been submitted and is pending approval.",
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "📋 Your Export Code",
				Value: fmt.Sprintf("Keep this safe in case you need it:\n```%s```", exportCode),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "You'll be notified once your registration is approved!"},
	}
}

// TicketChannelName names the review channel after the game username
func TicketChannelName(pending *models.PendingRegistration) string {
	prefix := "reg-"
	if pending.Source == models.SourceBrowser {
		prefix = "web-"
	}

	base := ""
	if pending.Record != nil && pending.Record.GameUsername != nil {
		base = slug.Make(*pending.Record.GameUsername)
	}
	if base == "" {
		base = slug.Make(pending.Username)
	}
	if base == "" {
		base = common.FormatUserID(pending.DiscordID)
	}

	name := prefix + base
	if len(name) > 100 {
		name = strings.TrimRight(name[:100], "-")
	}
	return name
}

// findReviewCategory prefers the configured category, then an exact name
// match, then any category mentioning registrations or pending
func findReviewCategory(channels []*discordgo.Channel, configuredID *int64, name string) *discordgo.Channel {
	var categories []*discordgo.Channel
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			categories = append(categories, ch)
		}
	}

	if configuredID != nil {
		id := common.FormatUserID(*configuredID)
		for _, ch := range categories {
			if ch.ID == id {
				return ch
			}
		}
	}

	for _, ch := range categories {
		if ch.Name == name {
			return ch
		}
	}

	for _, ch := range categories {
		lower := strings.ToLower(ch.Name)
		if strings.Contains(lower, "registration") || strings.Contains(lower, "pending") {
			return ch
		}
	}
	return nil
}

func findChannel(channels []*discordgo.Channel, parentID, name string) *discordgo.Channel {
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.ParentID == parentID && ch.Name == name {
			return ch
		}
	}
	return nil
}

func findRoleByName(roles []*discordgo.Role, name string) *discordgo.Role {
	if name == "" {
		return nil
	}
	for _, role := range roles {
		if strings.EqualFold(role.Name, name) {
			return role
		}
	}
	return nil
}

// ticketOverwrites hides the channel from @everyone and opens it to the
// registrant, the moderator role and administrator roles
func ticketOverwrites(guildID string, discordID int64, moderatorRole *discordgo.Role, roles []*discordgo.Role) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   guildID, // @everyone shares the guild id
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    common.FormatUserID(discordID),
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: common.PermissionViewAndSend,
		},
	}

	granted := map[string]bool{guildID: true}
	if moderatorRole != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    moderatorRole.ID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: common.PermissionViewAndSend,
		})
		granted[moderatorRole.ID] = true
	}

	for _, role := range roles {
		if granted[role.ID] || role.Managed {
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			overwrites = append(overwrites, &discordgo.PermissionOverwrite{
				ID:    role.ID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: common.PermissionViewAndSend,
			})
			granted[role.ID] = true
		}
	}

	return overwrites
}
