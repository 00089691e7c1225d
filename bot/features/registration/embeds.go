package registration

import (
	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/service"
)

// SummaryToEmbed renders a registration summary as a Discord embed
func SummaryToEmbed(summary models.RegistrationSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       summary.Title,
		Description: summary.Description,
		Color:       summary.Color,
	}

	for _, field := range summary.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Label,
			Value:  common.TruncateField(field.Value),
			Inline: field.Inline,
		})
	}

	if summary.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: summary.Footer}
	}

	return embed
}

// SummaryFromMessage reads the summary back out of a posted review message.
// It reports false when the message carries no embed.
func SummaryFromMessage(msg *discordgo.Message) (models.RegistrationSummary, bool) {
	if msg == nil || len(msg.Embeds) == 0 {
		return models.RegistrationSummary{}, false
	}

	embed := msg.Embeds[0]
	summary := models.RegistrationSummary{
		Title:       embed.Title,
		Description: embed.Description,
		Content:     msg.Content,
		Color:       embed.Color,
		HasControls: hasReviewControls(msg.Components),
	}

	for _, field := range embed.Fields {
		if field == nil {
			continue
		}
		summary.Fields = append(summary.Fields, models.SummaryField{
			Label:  field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}

	if embed.Footer != nil {
		summary.Footer = embed.Footer.Text
	}

	return summary, true
}

// ReviewComponents returns the Approve, Deny and Copy Export Code buttons
func ReviewComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Approve",
					Style:    discordgo.SuccessButton,
					CustomID: service.CustomIDApprove,
					Emoji:    &discordgo.ComponentEmoji{Name: "✅"},
				},
				discordgo.Button{
					Label:    "Deny",
					Style:    discordgo.DangerButton,
					CustomID: service.CustomIDReject,
					Emoji:    &discordgo.ComponentEmoji{Name: "❌"},
				},
				discordgo.Button{
					Label:    "Copy Export Code",
					Style:    discordgo.SecondaryButton,
					CustomID: service.CustomIDCopyExport,
					Emoji:    &discordgo.ComponentEmoji{Name: "📋"},
				},
			},
		},
	}
}

// hasReviewControls reports whether an approve or reject button is still attached
func hasReviewControls(components []discordgo.MessageComponent) bool {
	for _, component := range components {
		var inner []discordgo.MessageComponent
		switch row := component.(type) {
		case *discordgo.ActionsRow:
			inner = row.Components
		case discordgo.ActionsRow:
			inner = row.Components
		default:
			continue
		}

		for _, c := range inner {
			var customID string
			switch b := c.(type) {
			case *discordgo.Button:
				customID = b.CustomID
			case discordgo.Button:
				customID = b.CustomID
			}
			if customID == service.CustomIDApprove || customID == service.CustomIDReject {
				return true
			}
		}
	}
	return false
}
