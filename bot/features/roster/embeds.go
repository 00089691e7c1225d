package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/service"
)

// maxDivisionFields keeps the embed under Discord's 25 field limit
const maxDivisionFields = 25

// BuildRosterEmbed creates the roster embed, one field per division
func BuildRosterEmbed(roster *service.Roster) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Tournament Roster",
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if roster == nil || roster.Total == 0 {
		embed.Description = "No approved participants yet"
		return embed
	}

	embed.Description = fmt.Sprintf("%d approved participants", roster.Total)
	for _, division := range roster.Divisions {
		if len(embed.Fields) == maxDivisionFields {
			break
		}

		lines := make([]string, len(division.Participants))
		for i, p := range division.Participants {
			name := p.GameUsername
			if name == "" {
				name = p.Username
			}
			lines[i] = fmt.Sprintf("%d. **%s** %s", i+1, name, common.GetUserMention(p.DiscordID))
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s (%d)", division.Name, len(division.Participants)),
			Value: common.TruncateField(strings.Join(lines, "\n")),
		})
	}

	return embed
}

// BuildDivisionTotalsEmbed creates a compact embed with one line per division
func BuildDivisionTotalsEmbed(counts []models.DivisionCount) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Tournament Divisions",
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(counts) == 0 {
		embed.Description = "No approved participants yet"
		return embed
	}

	total := 0
	lines := make([]string, len(counts))
	for i, c := range counts {
		total += c.Count
		lines[i] = fmt.Sprintf("**%s**: %d", c.Division, c.Count)
	}
	embed.Description = common.TruncateText(strings.Join(lines, "\n"), common.MaxEmbedDescription)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d approved participants", total)}
	return embed
}

// BuildHistoryEmbed lists the review decisions made about a member, newest first
func BuildHistoryEmbed(discordID int64, decisions []*models.ApprovalDecision) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Review History",
		Color: common.ColorInfo,
	}

	if len(decisions) == 0 {
		embed.Description = fmt.Sprintf("No review decisions recorded for %s", common.GetUserMention(discordID))
		return embed
	}

	lines := make([]string, len(decisions))
	for i, d := range decisions {
		icon := "✅"
		if d.Outcome == models.DecisionRejected {
			icon = "❌"
		}
		lines[i] = fmt.Sprintf("%s **%s** by %s %s",
			icon, d.Outcome, common.GetUserMention(d.ModeratorID), common.FormatDiscordTimestamp(d.Timestamp, "R"))
	}

	embed.Description = common.TruncateText(
		fmt.Sprintf("Decisions for %s\n\n%s", common.GetUserMention(discordID), strings.Join(lines, "\n")),
		common.MaxEmbedDescription,
	)
	return embed
}
