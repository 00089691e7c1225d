package registration

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeveledInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantName  string
		wantLevel *int
		wantErr   bool
	}{
		{name: "parenthesized", input: "Sea Spirit (Lv 10)", wantName: "Sea Spirit", wantLevel: models.IntPtr(10)},
		{name: "dash separated", input: "Trident - Lv 5", wantName: "Trident", wantLevel: models.IntPtr(5)},
		{name: "compact", input: "Trident Lv5", wantName: "Trident", wantLevel: models.IntPtr(5)},
		{name: "level word", input: "Trident level 7", wantName: "Trident", wantLevel: models.IntPtr(7)},
		{name: "bare number", input: "Sea Spirit 12", wantName: "Sea Spirit", wantLevel: models.IntPtr(12)},
		{name: "no level", input: "Sea Spirit", wantName: "Sea Spirit"},
		{name: "empty", input: "   "},
		{name: "zero level", input: "Trident (Lv 0)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, level, err := parseLeveledInput(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestApplyProfile(t *testing.T) {
	t.Parallel()

	communities := []string{"Shinning Stars", "Ronin Gaming"}

	t.Run("fills identity fields", func(t *testing.T) {
		t.Parallel()

		draft := &Draft{Record: models.RegistrationRecord{DiscordID: 42}}
		err := applyProfile(draft, map[string]string{
			inputGameUsername: " Player1 ",
			inputGameID:       "ABC123",
			inputCommunity:    "ronin gaming",
			inputTimezone:     "",
			inputHero:         "Sea Spirit (Lv 10)",
		}, communities)
		require.NoError(t, err)

		assert.Equal(t, "Player1", *draft.Record.GameUsername)
		assert.Equal(t, "ABC123", *draft.Record.GameID)
		assert.Equal(t, "Ronin Gaming", *draft.Record.Community)
		assert.Nil(t, draft.Record.Timezone)
		assert.Equal(t, "Sea Spirit", *draft.Record.Hero)
		assert.Equal(t, 10, *draft.Record.HeroLevel)
	})

	t.Run("defaults hero level", func(t *testing.T) {
		t.Parallel()

		draft := &Draft{}
		err := applyProfile(draft, map[string]string{
			inputGameUsername: "Player1",
			inputHero:         "Sea Spirit",
		}, communities)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultHeroLevel, *draft.Record.HeroLevel)
		assert.Nil(t, draft.Record.Community)
	})

	errorCases := []struct {
		name   string
		values map[string]string
	}{
		{name: "missing username", values: map[string]string{inputHero: "Sea Spirit"}},
		{name: "missing hero", values: map[string]string{inputGameUsername: "Player1"}},
		{name: "unknown community", values: map[string]string{inputGameUsername: "Player1", inputHero: "Sea Spirit", inputCommunity: "Nobody"}},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			draft := &Draft{}
			assert.Error(t, applyProfile(draft, tt.values, communities))
			assert.Nil(t, draft.Record.GameUsername)
		})
	}
}

func TestApplyStats(t *testing.T) {
	t.Parallel()

	t.Run("parses stats and hero item", func(t *testing.T) {
		t.Parallel()

		draft := &Draft{}
		err := applyStats(draft, map[string]string{
			inputCrit:        "45%",
			inputLegendarity: "1200",
			inputPerks:       "300",
			inputHeroItem:    "Trident (Lv 5)",
		})
		require.NoError(t, err)

		assert.Equal(t, 45, *draft.Record.CritLevel)
		assert.Equal(t, 1200, *draft.Record.Legendarity)
		assert.Equal(t, 300, *draft.Record.PerksLevel)
		assert.Equal(t, "Trident", *draft.Record.HeroItem)
		assert.Equal(t, 5, *draft.Record.HeroItemLevel)
	})

	t.Run("clearing hero item clears its level", func(t *testing.T) {
		t.Parallel()

		draft := &Draft{Record: models.RegistrationRecord{
			HeroItem:      models.StringPtr("Trident"),
			HeroItemLevel: models.IntPtr(5),
		}}
		require.NoError(t, applyStats(draft, map[string]string{inputCrit: "10"}))
		assert.Nil(t, draft.Record.HeroItem)
		assert.Nil(t, draft.Record.HeroItemLevel)
	})

	invalid := map[string]map[string]string{
		"crit above 100":       {inputCrit: "101"},
		"negative legendarity": {inputLegendarity: "-1"},
		"perks not a number":   {inputPerks: "lots"},
		"hero item level zero": {inputHeroItem: "Trident (Lv 0)"},
	}
	for name, values := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, applyStats(&Draft{}, values))
		})
	}
}

func TestApplyCard(t *testing.T) {
	t.Parallel()

	draft := &Draft{}
	require.NoError(t, applyCard(draft, map[string]string{inputCardName: "twins", inputCardLevel: "12"}))
	require.Len(t, draft.Record.Cards, 1)
	assert.Equal(t, models.Card{Name: "Twins", Level: 12}, draft.Record.Cards[0])

	assert.Error(t, applyCard(draft, map[string]string{inputCardName: "Twins", inputCardLevel: "11"}))
	assert.Error(t, applyCard(draft, map[string]string{inputCardName: "Not A Card", inputCardLevel: "5"}))
	assert.Error(t, applyCard(draft, map[string]string{inputCardName: "Knight Statue", inputCardLevel: "x"}))
	assert.Len(t, draft.Record.Cards, 1)
}

func TestDraftComponents(t *testing.T) {
	t.Parallel()

	addCardDisabled := func(draft Draft) bool {
		row := draftComponents(draft)[0].(discordgo.ActionsRow)
		for _, c := range row.Components {
			if button := c.(discordgo.Button); button.CustomID == customIDAddCard {
				return button.Disabled
			}
		}
		t.Fatal("add card button missing")
		return false
	}

	draft := Draft{}
	assert.False(t, addCardDisabled(draft))

	for range models.MaxDeckSize {
		draft.Record.Cards = append(draft.Record.Cards, models.Card{Name: "Twins", Level: 1})
	}
	assert.True(t, addCardDisabled(draft))
}

func TestDraftEmbed(t *testing.T) {
	t.Parallel()

	draft := Draft{
		Source: models.SourceDiscord,
		Record: models.RegistrationRecord{
			GameUsername: models.StringPtr("Player1"),
			Hero:         models.StringPtr("Sea Spirit"),
			HeroLevel:    models.IntPtr(10),
			Cards:        []models.Card{{Name: "Twins", Level: 12}},
		},
	}

	embed := draftEmbed(draft)
	require.NotNil(t, embed)
	assert.Equal(t, "Source: Discord", embed.Footer.Text)

	values := map[string]string{}
	for _, field := range embed.Fields {
		values[field.Name] = field.Value
	}
	assert.Equal(t, "Player1", values[models.LabelGameUsername])
	assert.Equal(t, "Sea Spirit (Lv 10)", values[models.LabelHero])
	assert.Contains(t, values["🃏 Deck (1/5)"], "Twins")
}

func TestLeveledString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", leveledString(nil, models.IntPtr(3)))
	assert.Equal(t, "Trident", leveledString(models.StringPtr("Trident"), nil))
	assert.Equal(t, "Trident (Lv 3)", leveledString(models.StringPtr("Trident"), models.IntPtr(3)))
	assert.Equal(t, "", intString(nil))
	assert.Equal(t, "7", intString(models.IntPtr(7)))
}
