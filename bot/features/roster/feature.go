package roster

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	log "github.com/sirupsen/logrus"
)

// Feature handles the /roster command
type Feature struct {
	rosterService service.RosterService
}

// NewFeature creates a new roster feature instance
func NewFeature(rosterService service.RosterService) *Feature {
	return &Feature{rosterService: rosterService}
}

// Command returns the /roster definition
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "roster",
		Description: "Show approved tournament participants by division",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "totals",
				Description: "Only show how many participants each division has",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "history",
				Description: "Show the review decisions made about a member (admin only)",
				Required:    false,
			},
		},
	}
}

// HandleCommand displays the approved roster, division totals or a member's decision history
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "The roster is only available inside the tournament server.")
		return
	}

	options := i.ApplicationCommandData().Options
	for _, opt := range options {
		if opt.Name == "history" {
			f.handleHistory(s, i, guildID, opt)
			return
		}
	}
	for _, opt := range options {
		if opt.Name == "totals" && opt.BoolValue() {
			f.handleTotals(s, i, guildID)
			return
		}
	}

	roster, err := f.rosterService.GetRoster(context.Background(), guildID)
	if err != nil {
		log.Printf("Error getting roster: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve the roster. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildRosterEmbed(roster), nil, false); err != nil {
		log.WithError(err).Error("Failed to send roster")
	}
}

func (f *Feature) handleTotals(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	counts, err := f.rosterService.GetDivisionCounts(context.Background(), guildID)
	if err != nil {
		log.Printf("Error counting roster: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve the roster. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildDivisionTotalsEmbed(counts), nil, false); err != nil {
		log.WithError(err).Error("Failed to send division totals")
	}
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, opt *discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsUserAdmin(s, i) {
		common.RespondWithError(s, i, "You need administrator permissions to view review history")
		return
	}

	user := opt.UserValue(s)
	discordID, err := common.ParseUserID(user.ID)
	if err != nil {
		common.RespondWithError(s, i, "Invalid member selected")
		return
	}

	decisions, err := f.rosterService.GetDecisionHistory(context.Background(), guildID, discordID)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"discord_id": discordID,
			"error":      err,
		}).Error("Failed to load decision history")
		common.RespondWithError(s, i, "Unable to retrieve review history. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildHistoryEmbed(discordID, decisions), nil, true); err != nil {
		log.WithError(err).Error("Failed to send decision history")
	}
}
