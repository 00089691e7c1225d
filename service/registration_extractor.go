package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/models"
)

var (
	deckLinePattern    = regexp.MustCompile(`^\s*\d+\.\s+(.+?)\s+-\s+Lv\s+(\d+)\s*$`)
	baseCritPattern    = regexp.MustCompile(`Base Crit:\**\s*(\d+)\s*%?`)
	legendarityPattern = regexp.MustCompile(`Legendarity:\**\s*(\d+)`)
	perksPattern       = regexp.MustCompile(`(?:^|[\s*])Perks:\**\s*(\d+)`)
	divisionPattern    = regexp.MustCompile(`Division:\**\s*(.*\S)\s*$`)
	mentionPattern     = regexp.MustCompile(`<@!?(\d+)>`)
	footerUserPattern  = regexp.MustCompile(`User ID:\s*(\d+)`)
	footerRefPattern   = regexp.MustCompile(`Ref:\s*([0-9a-fA-F-]{36})`)
)

// ExtractRegistration parses a rendered summary back into a record. Labels are
// matched case-insensitively by substring. Any field that does not parse is
// left nil; extraction never fails.
func ExtractRegistration(fields []models.SummaryField, discordID int64) models.RegistrationRecord {
	record := models.RegistrationRecord{
		DiscordID: discordID,
		Cards:     []models.Card{},
	}

	for _, field := range fields {
		label := strings.ToLower(field.Label)
		value := strings.TrimSpace(field.Value)

		switch {
		case strings.Contains(label, "game username"):
			record.GameUsername = textValue(value)
		case strings.Contains(label, "game id"):
			record.GameID = textValue(value)
		case strings.Contains(label, "community"):
			record.Community = textValue(value)
		case strings.Contains(label, "timezone"):
			record.Timezone = textValue(value)
		case strings.Contains(label, "hero item"):
			record.HeroItem, record.HeroItemLevel = leveledValue(value)
			// Browser summaries render an item without a level as "(Lv 0)"
			if record.HeroItemLevel != nil && *record.HeroItemLevel <= 0 {
				record.HeroItemLevel = nil
			}
		case strings.Contains(label, "hero") && !strings.Contains(label, "item"):
			record.Hero, record.HeroLevel = leveledValue(value)
		case strings.Contains(label, "perks"):
			if n, ok := parseCount(value); ok {
				record.PerksLevel = &n
			}
		case strings.Contains(label, "deck") || strings.Contains(label, "card"):
			record.Cards = append(record.Cards, parseDeck(value)...)
		case strings.Contains(label, "strength"):
			applyStrengthLines(&record, value)
		}
	}

	return record
}

// ResolveDiscordID finds the registrant's id, first from the Discord User
// mention field and then from the footer's "User ID:" token.
func ResolveDiscordID(summary models.RegistrationSummary) (int64, error) {
	for _, field := range summary.Fields {
		if !strings.Contains(strings.ToLower(field.Label), "discord user") {
			continue
		}
		if m := mentionPattern.FindStringSubmatch(field.Value); m != nil {
			if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				return id, nil
			}
		}
	}

	if m := footerUserPattern.FindStringSubmatch(summary.Footer); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return id, nil
		}
	}

	return 0, ErrMissingIdentifier
}

// ResolveRegistrationRef returns the pending registration token embedded in
// the footer, if the summary was rendered with one.
func ResolveRegistrationRef(summary models.RegistrationSummary) (uuid.UUID, bool) {
	m := footerRefPattern.FindStringSubmatch(summary.Footer)
	if m == nil {
		return uuid.Nil, false
	}
	token, err := uuid.Parse(m[1])
	if err != nil {
		return uuid.Nil, false
	}
	return token, true
}

// textValue treats empty and placeholder values as absent
func textValue(value string) *string {
	switch strings.ToLower(value) {
	case "", "none", "n/a":
		return nil
	}
	return &value
}

// leveledValue parses "Name (Lv N)". A value without a level yields the name
// alone; a malformed level drops the whole field.
func leveledValue(value string) (*string, *int) {
	name, level, found := strings.Cut(value, "(Lv")
	if !found {
		return textValue(value), nil
	}

	level = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(level), ")"))
	n, err := strconv.Atoi(level)
	if err != nil {
		return nil, nil
	}
	parsed := textValue(strings.TrimSpace(name))
	if parsed == nil {
		return nil, nil
	}
	return parsed, &n
}

func parseCount(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseDeck(value string) []models.Card {
	var cards []models.Card
	for _, line := range strings.Split(value, "\n") {
		m := deckLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		cards = append(cards, models.Card{Name: strings.TrimSpace(m[1]), Level: level})
	}
	return cards
}

func applyStrengthLines(record *models.RegistrationRecord, value string) {
	for _, line := range strings.Split(value, "\n") {
		if m := baseCritPattern.FindStringSubmatch(line); m != nil {
			if n, ok := parseCount(m[1]); ok {
				record.CritLevel = &n
			}
		}
		if m := legendarityPattern.FindStringSubmatch(line); m != nil {
			if n, ok := parseCount(m[1]); ok {
				record.Legendarity = &n
			}
		}
		if m := perksPattern.FindStringSubmatch(line); m != nil {
			if n, ok := parseCount(m[1]); ok {
				record.PerksLevel = &n
			}
		}
		if m := divisionPattern.FindStringSubmatch(line); m != nil {
			division := strings.Trim(m[1], "* ")
			if division != "" {
				record.Division = &division
			}
		}
	}
}
