package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// exportHeaderFields is the number of comma separated values before the cards
const exportHeaderFields = 11

// BuildExportCode serializes a record into the comma separated export format:
// username, game id, crit, legendarity, perks, timezone, community, hero,
// hero level, hero item, hero item level, then name and level per card.
func BuildExportCode(record models.RegistrationRecord) string {
	heroItem, heroItemLevel := "None", "0"
	if record.HeroItem != nil {
		heroItem = *record.HeroItem
		if record.HeroItemLevel != nil {
			heroItemLevel = strconv.Itoa(*record.HeroItemLevel)
		}
	}

	parts := []string{
		derefString(record.GameUsername),
		derefString(record.GameID),
		strconv.Itoa(derefInt(record.CritLevel)),
		strconv.Itoa(derefInt(record.Legendarity)),
		strconv.Itoa(derefInt(record.PerksLevel)),
		derefString(record.Timezone),
		derefString(record.Community),
		derefString(record.Hero),
		strconv.Itoa(derefIntOr(record.HeroLevel, models.DefaultHeroLevel)),
		heroItem,
		heroItemLevel,
	}
	for _, card := range record.Cards {
		parts = append(parts, card.Name, strconv.Itoa(card.Level))
	}
	return strings.Join(parts, ",")
}

// ParseExportCode reads a code produced by BuildExportCode. The returned
// record has no discord id; callers set it.
func ParseExportCode(code string) (models.RegistrationRecord, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(code), "`"), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	cardParts := len(parts) - exportHeaderFields
	if cardParts < 0 || cardParts%2 != 0 || cardParts/2 > models.MaxDeckSize {
		return models.RegistrationRecord{}, fmt.Errorf("%w: expected %d fields plus up to %d cards, got %d values",
			ErrInvalidExportCode, exportHeaderFields, models.MaxDeckSize, len(parts))
	}

	numbers := make(map[int]int, 6)
	for _, idx := range []int{2, 3, 4, 8} {
		n, err := strconv.Atoi(parts[idx])
		if err != nil {
			return models.RegistrationRecord{}, fmt.Errorf("%w: value %q at position %d is not a number", ErrInvalidExportCode, parts[idx], idx+1)
		}
		numbers[idx] = n
	}

	record := models.RegistrationRecord{
		GameUsername: textValue(parts[0]),
		GameID:       textValue(parts[1]),
		CritLevel:    models.IntPtr(numbers[2]),
		Legendarity:  models.IntPtr(numbers[3]),
		PerksLevel:   models.IntPtr(numbers[4]),
		Timezone:     textValue(parts[5]),
		Community:    textValue(parts[6]),
		Hero:         textValue(parts[7]),
		HeroLevel:    models.IntPtr(numbers[8]),
		Cards:        []models.Card{},
	}

	if item := textValue(parts[9]); item != nil {
		record.HeroItem = item
		level, err := strconv.Atoi(parts[10])
		if err != nil {
			return models.RegistrationRecord{}, fmt.Errorf("%w: hero item level %q is not a number", ErrInvalidExportCode, parts[10])
		}
		if level > 0 {
			record.HeroItemLevel = &level
		}
	}

	for i := exportHeaderFields; i < len(parts); i += 2 {
		level, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return models.RegistrationRecord{}, fmt.Errorf("%w: card level %q is not a number", ErrInvalidExportCode, parts[i+1])
		}
		record.Cards = append(record.Cards, models.Card{Name: parts[i], Level: level})
	}

	return record, nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefIntOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
