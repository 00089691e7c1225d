package registration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/haliguyr1-cmyk/RRTournament/bot/common"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/haliguyr1-cmyk/RRTournament/service"
)

const draftPrefix = "reg_"

// Component and modal identifiers for the /register flow
const (
	customIDStats   = "reg_stats"
	customIDAddCard = "reg_add_card"
	customIDSubmit  = "reg_submit"
	customIDCancel  = "reg_cancel"

	modalProfile = "reg_profile_modal"
	modalStats   = "reg_stats_modal"
	modalCard    = "reg_card_modal"
	modalImport  = "reg_import_modal"
)

// Text input identifiers
const (
	inputGameUsername = "game_username"
	inputGameID       = "game_id"
	inputCommunity    = "community"
	inputTimezone     = "timezone"
	inputHero         = "hero"
	inputCrit         = "crit"
	inputLegendarity  = "legendarity"
	inputPerks        = "perks"
	inputHeroItem     = "hero_item"
	inputCardName     = "card_name"
	inputCardLevel    = "card_level"
	inputExportCode   = "export_code"
)

const expiredMessage = "Registration expired. Please run /register again."

// Draft is a registration being assembled through /register
type Draft struct {
	GuildID  int64
	Username string
	Source   string
	Record   models.RegistrationRecord
}

var leveledInput = regexp.MustCompile(`(?i)^(.*?)[\s-]*\(?\s*(?:lv\.?|level)?\s*(\d+)\s*\)?$`)

// parseLeveledInput accepts "Name (Lv 10)", "Name - Lv 10", "Name Lv10" or
// "Name 10". A missing level yields a nil level.
func parseLeveledInput(value string) (string, *int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil, nil
	}

	m := leveledInput.FindStringSubmatch(value)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return value, nil, nil
	}

	level, err := strconv.Atoi(m[2])
	if err != nil || level < 1 {
		return "", nil, fmt.Errorf("invalid level in %q", value)
	}
	return strings.TrimSpace(m[1]), &level, nil
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// applyProfile fills the identity fields from the profile modal
func applyProfile(draft *Draft, values map[string]string, communities []string) error {
	username := optionalText(values[inputGameUsername])
	if username == nil {
		return fmt.Errorf("game username is required")
	}

	hero, heroLevel, err := parseLeveledInput(values[inputHero])
	if err != nil {
		return fmt.Errorf("hero: %w", err)
	}
	if hero == "" {
		return fmt.Errorf("hero is required")
	}
	if heroLevel == nil {
		heroLevel = models.IntPtr(models.DefaultHeroLevel)
	}

	community := optionalText(values[inputCommunity])
	if community != nil {
		canonical, ok := matchCommunity(*community, communities)
		if !ok {
			return fmt.Errorf("unknown community %q, choose one of: %s", *community, strings.Join(communities, ", "))
		}
		community = &canonical
	}

	draft.Record.GameUsername = username
	draft.Record.GameID = optionalText(values[inputGameID])
	draft.Record.Community = community
	draft.Record.Timezone = optionalText(values[inputTimezone])
	draft.Record.Hero = &hero
	draft.Record.HeroLevel = heroLevel
	return nil
}

func matchCommunity(value string, communities []string) (string, bool) {
	for _, c := range communities {
		if strings.EqualFold(strings.TrimSpace(c), value) {
			return c, true
		}
	}
	return "", false
}

// applyStats fills crit, legendarity, perks and the optional hero item
func applyStats(draft *Draft, values map[string]string) error {
	parse := func(key, label string, min, max int) (*int, error) {
		raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(values[key]), "%"))
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < min || (max > 0 && n > max) {
			if max > 0 {
				return nil, fmt.Errorf("%s must be a number from %d to %d", label, min, max)
			}
			return nil, fmt.Errorf("%s must be a number of at least %d", label, min)
		}
		return &n, nil
	}

	crit, err := parse(inputCrit, "Crit", 0, 100)
	if err != nil {
		return err
	}
	legendarity, err := parse(inputLegendarity, "Legendarity", 0, 0)
	if err != nil {
		return err
	}
	perks, err := parse(inputPerks, "Perks", 0, 0)
	if err != nil {
		return err
	}

	item, itemLevel, err := parseLeveledInput(values[inputHeroItem])
	if err != nil {
		return fmt.Errorf("hero item: %w", err)
	}

	draft.Record.CritLevel = crit
	draft.Record.Legendarity = legendarity
	draft.Record.PerksLevel = perks
	draft.Record.HeroItem = optionalText(item)
	draft.Record.HeroItemLevel = nil
	if draft.Record.HeroItem != nil {
		draft.Record.HeroItemLevel = itemLevel
	}
	return nil
}

// applyCard adds one card from the card modal
func applyCard(draft *Draft, values map[string]string) error {
	name := strings.TrimSpace(values[inputCardName])
	level, err := strconv.Atoi(strings.TrimSpace(values[inputCardLevel]))
	if err != nil {
		return fmt.Errorf("card level must be a number")
	}
	return service.AddCard(&draft.Record, name, level)
}

// draftEmbed previews the draft with its current strength
func draftEmbed(draft Draft) *discordgo.MessageEmbed {
	record := draft.Record
	strength := service.CalculateStrength(record)

	value := func(v *string) string {
		if v == nil {
			return "—"
		}
		return *v
	}

	hero := value(record.Hero)
	if record.Hero != nil && record.HeroLevel != nil {
		hero = fmt.Sprintf("%s (Lv %d)", *record.Hero, *record.HeroLevel)
	}
	item := value(record.HeroItem)
	if record.HeroItem != nil && record.HeroItemLevel != nil {
		item = fmt.Sprintf("%s (Lv %d)", *record.HeroItem, *record.HeroItemLevel)
	}

	return &discordgo.MessageEmbed{
		Title:       "📝 Tournament Registration",
		Description: "Fill in your stats and deck, then press **Submit** to send it for review.",
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: models.LabelGameUsername, Value: value(record.GameUsername), Inline: true},
			{Name: models.LabelGameID, Value: value(record.GameID), Inline: true},
			{Name: models.LabelCommunity, Value: value(record.Community), Inline: true},
			{Name: models.LabelTimezone, Value: value(record.Timezone), Inline: true},
			{Name: models.LabelHero, Value: hero, Inline: true},
			{Name: models.LabelHeroItem, Value: item, Inline: true},
			{Name: fmt.Sprintf("🃏 Deck (%d/%d)", len(record.Cards), models.MaxDeckSize), Value: service.FormatDeck(record.Cards)},
			{Name: models.LabelStrength, Value: service.FormatStrength(strength)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Source: " + draft.Source},
	}
}

// draftComponents returns the draft controls; Add Card is disabled once the deck is full
func draftComponents(draft Draft) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Stats", Style: discordgo.PrimaryButton, CustomID: customIDStats, Emoji: &discordgo.ComponentEmoji{Name: "📊"}},
				discordgo.Button{Label: "Add Card", Style: discordgo.PrimaryButton, CustomID: customIDAddCard, Emoji: &discordgo.ComponentEmoji{Name: "🃏"}, Disabled: len(draft.Record.Cards) >= models.MaxDeckSize},
				discordgo.Button{Label: "Submit", Style: discordgo.SuccessButton, CustomID: customIDSubmit},
				discordgo.Button{Label: "Cancel", Style: discordgo.DangerButton, CustomID: customIDCancel},
			},
		},
	}
}

func textInput(customID, label, value, placeholder string, required bool, maxLength int) *discordgo.TextInput {
	return &discordgo.TextInput{
		CustomID:    customID,
		Label:       label,
		Style:       discordgo.TextInputShort,
		Value:       value,
		Placeholder: placeholder,
		Required:    required,
		MaxLength:   maxLength,
	}
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func leveledString(name *string, level *int) string {
	if name == nil {
		return ""
	}
	if level == nil {
		return *name
	}
	return fmt.Sprintf("%s (Lv %d)", *name, *level)
}
