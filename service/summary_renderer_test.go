package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPendingSummary(t *testing.T) {
	t.Parallel()

	token := uuid.MustParse("6f1c2a58-5b7e-4c8e-9a51-0b4cf6b2f8a1")
	record := models.RegistrationRecord{
		DiscordID:    1001,
		GameUsername: models.StringPtr("Rider"),
		GameID:       models.StringPtr("77"),
		Hero:         models.StringPtr("Mari"),
		HeroLevel:    models.IntPtr(9),
		PerksLevel:   models.IntPtr(5),
		Cards:        []models.Card{{Name: "Bard", Level: 2}},
	}

	summary := RenderPendingSummary(record, "", token, models.SourceBrowser, CalculateStrength(record), "code")

	assert.Equal(t, "🌐 Browser Registration - PENDING APPROVAL", summary.Title)
	assert.Equal(t, models.SummaryPendingColor, summary.Color)
	assert.True(t, summary.HasControls)
	assert.Equal(t, fmt.Sprintf("User ID: 1001 | Source: Browser | Status: Pending | Ref: %s", token), summary.Footer)

	labels := make([]string, len(summary.Fields))
	for i, f := range summary.Fields {
		labels[i] = f.Label
	}
	assert.Equal(t, []string{
		models.LabelDiscordUser,
		models.LabelUsername,
		models.LabelGameUsername,
		models.LabelGameID,
		models.LabelCommunity,
		models.LabelTimezone,
		models.LabelHero,
		models.LabelPerksLevel,
		models.LabelDeck,
		models.LabelStrength,
		models.LabelExportCode,
	}, labels, "hero item is omitted when absent")

	user, ok := summary.Field(models.LabelDiscordUser)
	require.True(t, ok)
	assert.Equal(t, "<@1001>", user.Value)

	username, _ := summary.Field(models.LabelUsername)
	assert.Equal(t, "N/A", username.Value)

	hero, _ := summary.Field(models.LabelHero)
	assert.Equal(t, "Mari (Lv 9)", hero.Value)

	deck, _ := summary.Field(models.LabelDeck)
	assert.Equal(t, "1. Bard - Lv 2", deck.Value)

	code, _ := summary.Field(models.LabelExportCode)
	assert.Equal(t, "`code`", code.Value)
}

func TestRenderPendingSummary_NativeSourceTitle(t *testing.T) {
	t.Parallel()

	summary := RenderPendingSummary(models.RegistrationRecord{DiscordID: 1}, "user", uuid.New(), models.SourceDiscord, models.Strength{}, "")

	assert.Equal(t, "📝 Registration - PENDING APPROVAL", summary.Title)
	_, hasCode := summary.Field(models.LabelExportCode)
	assert.False(t, hasCode)
}

func TestApplyDecision(t *testing.T) {
	t.Parallel()

	pending := models.RegistrationSummary{
		Title:       "🌐 Browser Registration - PENDING APPROVAL",
		Description: pendingDescription,
		Color:       models.SummaryPendingColor,
		Fields:      []models.SummaryField{{Label: models.LabelDiscordUser, Value: "<@5>"}},
		Footer:      "User ID: 5 | Source: Browser | Status: Pending",
		HasControls: true,
	}

	tests := []struct {
		name          string
		outcome       models.DecisionOutcome
		expectTitle   string
		expectColor   int
		expectFooter  string
		expectContent string
	}{
		{
			name:          "approved",
			outcome:       models.DecisionApproved,
			expectTitle:   "✅ Registration APPROVED",
			expectColor:   ColorApproved,
			expectFooter:  "User ID: 5 | Source: Browser | Status: Pending | Approved by Mod",
			expectContent: "✅ **Registration APPROVED** by <@99>",
		},
		{
			name:          "rejected",
			outcome:       models.DecisionRejected,
			expectTitle:   "❌ Registration REJECTED",
			expectColor:   ColorRejected,
			expectFooter:  "User ID: 5 | Source: Browser | Status: Pending | Rejected by Mod",
			expectContent: "❌ **Registration REJECTED** by <@99>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decided := ApplyDecision(pending, tt.outcome, 99, "Mod")

			assert.False(t, decided.HasControls)
			assert.Equal(t, tt.expectTitle, decided.Title)
			assert.Equal(t, tt.expectColor, decided.Color)
			assert.Equal(t, tt.expectFooter, decided.Footer)
			assert.Equal(t, tt.expectContent, decided.Content)
			assert.Equal(t, pending.Fields, decided.Fields)
			assert.Equal(t, pending.Description, decided.Description)
		})
	}

	assert.True(t, pending.HasControls, "input summary is not modified")
}

func TestFormatStrength(t *testing.T) {
	t.Parallel()

	s := models.Strength{
		BaseCrit:      50,
		AdjustedCrit:  60,
		Legendarity:   700,
		Perks:         30,
		Total:         310,
		Division:      "Lightweight",
		PantheonBonus: []models.PantheonBonus{{Card: "Twins", Percent: 20}},
	}

	expected := "Base Crit: 50%\nAdjusted Crit: 60% (Twins +20%)\nLegendarity: 700\nPerks: 30\nTotal Strength: 310\nDivision: Lightweight"
	assert.Equal(t, expected, FormatStrength(s))
}
