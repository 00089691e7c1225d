package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/models"
)

const (
	ColorApproved = 0x57F287
	ColorRejected = 0xED4245

	pendingDescription = "Please review the participant information below:"
)

// RenderPendingSummary builds the moderator review view of a registration.
// The token is embedded in the footer so decisions can load the stored record.
func RenderPendingSummary(record models.RegistrationRecord, username string, token uuid.UUID, source string, strength models.Strength, exportCode string) models.RegistrationSummary {
	title := "📝 Registration - PENDING APPROVAL"
	if source == models.SourceBrowser {
		title = "🌐 Browser Registration - PENDING APPROVAL"
	}

	fields := []models.SummaryField{
		{Label: models.LabelDiscordUser, Value: fmt.Sprintf("<@%d>", record.DiscordID), Inline: true},
		{Label: models.LabelUsername, Value: orNA(username), Inline: true},
		{Label: models.LabelGameUsername, Value: orNAPtr(record.GameUsername), Inline: true},
		{Label: models.LabelGameID, Value: orNAPtr(record.GameID), Inline: true},
		{Label: models.LabelCommunity, Value: orNAPtr(record.Community), Inline: true},
		{Label: models.LabelTimezone, Value: orNAPtr(record.Timezone), Inline: true},
		{Label: models.LabelHero, Value: formatLeveled(record.Hero, record.HeroLevel), Inline: true},
		{Label: models.LabelPerksLevel, Value: formatOptionalInt(record.PerksLevel), Inline: true},
	}

	if record.HeroItem != nil {
		fields = append(fields, models.SummaryField{
			Label:  models.LabelHeroItem,
			Value:  formatLeveled(record.HeroItem, record.HeroItemLevel),
			Inline: true,
		})
	}

	fields = append(fields,
		models.SummaryField{Label: models.LabelDeck, Value: FormatDeck(record.Cards)},
		models.SummaryField{Label: models.LabelStrength, Value: FormatStrength(strength)},
	)

	if exportCode != "" {
		fields = append(fields, models.SummaryField{Label: models.LabelExportCode, Value: "`" + exportCode + "`"})
	}

	return models.RegistrationSummary{
		Title:       title,
		Description: pendingDescription,
		Color:       models.SummaryPendingColor,
		Fields:      fields,
		Footer:      fmt.Sprintf("User ID: %d | Source: %s | Status: Pending | Ref: %s", record.DiscordID, source, token),
		HasControls: true,
	}
}

// ApplyDecision returns the terminal view of a summary. Fields are kept, the
// controls are removed and the moderator is appended to the footer.
func ApplyDecision(summary models.RegistrationSummary, outcome models.DecisionOutcome, moderatorID int64, moderatorName string) models.RegistrationSummary {
	decided := summary
	decided.Fields = append([]models.SummaryField(nil), summary.Fields...)
	decided.HasControls = false

	switch outcome {
	case models.DecisionApproved:
		decided.Title = "✅ Registration APPROVED"
		decided.Color = ColorApproved
		decided.Footer = fmt.Sprintf("%s | Approved by %s", summary.Footer, moderatorName)
		decided.Content = fmt.Sprintf("✅ **Registration APPROVED** by <@%d>", moderatorID)
	case models.DecisionRejected:
		decided.Title = "❌ Registration REJECTED"
		decided.Color = ColorRejected
		decided.Footer = fmt.Sprintf("%s | Rejected by %s", summary.Footer, moderatorName)
		decided.Content = fmt.Sprintf("❌ **Registration REJECTED** by <@%d>", moderatorID)
	}

	return decided
}

// FormatDeck renders cards as "N. Name - Lv L" lines
func FormatDeck(cards []models.Card) string {
	if len(cards) == 0 {
		return "No cards"
	}
	lines := make([]string, len(cards))
	for i, card := range cards {
		lines[i] = fmt.Sprintf("%d. %s - Lv %d", i+1, card.Name, card.Level)
	}
	return strings.Join(lines, "\n")
}

// FormatStrength renders the strength breakdown one label per line
func FormatStrength(s models.Strength) string {
	adjusted := fmt.Sprintf("Adjusted Crit: %d%%", s.AdjustedCrit)
	if len(s.PantheonBonus) > 0 {
		bonuses := make([]string, len(s.PantheonBonus))
		for i, b := range s.PantheonBonus {
			bonuses[i] = fmt.Sprintf("%s +%d%%", b.Card, b.Percent)
		}
		adjusted = fmt.Sprintf("%s (%s)", adjusted, strings.Join(bonuses, ", "))
	}

	return strings.Join([]string{
		fmt.Sprintf("Base Crit: %d%%", s.BaseCrit),
		adjusted,
		fmt.Sprintf("Legendarity: %d", s.Legendarity),
		fmt.Sprintf("Perks: %d", s.Perks),
		fmt.Sprintf("Total Strength: %d", s.Total),
		fmt.Sprintf("Division: %s", s.Division),
	}, "\n")
}

func formatLeveled(name *string, level *int) string {
	if name == nil {
		return "N/A"
	}
	if level == nil {
		return *name
	}
	return fmt.Sprintf("%s (Lv %d)", *name, *level)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orNAPtr(s *string) string {
	if s == nil {
		return "N/A"
	}
	return orNA(*s)
}
