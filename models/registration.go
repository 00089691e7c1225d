package models

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxDeckSize is the number of cards a registered deck may hold
	MaxDeckSize = 5

	DefaultDivision  = "Unknown"
	DefaultTimezone  = "UTC"
	DefaultHeroLevel = 1
)

// Card is a single deck entry
type Card struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// RegistrationRecord is a player's tournament entry. Optional values are nil
// when the source did not provide them.
type RegistrationRecord struct {
	DiscordID     int64   `json:"discordId"`
	GameUsername  *string `json:"gameUsername,omitempty"`
	GameID        *string `json:"gameId,omitempty"`
	Community     *string `json:"community,omitempty"`
	Timezone      *string `json:"timezone,omitempty"`
	Hero          *string `json:"hero,omitempty"`
	HeroLevel     *int    `json:"heroLevel,omitempty"`
	HeroItem      *string `json:"heroItem,omitempty"`
	HeroItemLevel *int    `json:"heroItemLevel,omitempty"`
	CritLevel     *int    `json:"critLevel,omitempty"`
	Legendarity   *int    `json:"legendarity,omitempty"`
	PerksLevel    *int    `json:"perksLevel,omitempty"`
	Division      *string `json:"division,omitempty"`
	Cards         []Card  `json:"cards"`
}

// Validate checks the record invariants. It is not called by the extractor,
// which is lenient by contract; callers validate before persisting.
func (r *RegistrationRecord) Validate() error {
	var errs []error

	if r.DiscordID <= 0 {
		errs = append(errs, errors.New("discord id is required"))
	}
	if len(r.Cards) > MaxDeckSize {
		errs = append(errs, fmt.Errorf("deck has %d cards, maximum is %d", len(r.Cards), MaxDeckSize))
	}
	seen := make(map[string]bool, len(r.Cards))
	for _, card := range r.Cards {
		key := strings.ToLower(strings.TrimSpace(card.Name))
		if key == "" {
			errs = append(errs, errors.New("card name is required"))
			continue
		}
		if seen[key] {
			errs = append(errs, fmt.Errorf("card %q appears more than once", card.Name))
		}
		seen[key] = true
		if card.Level < 1 {
			errs = append(errs, fmt.Errorf("card %q has invalid level %d", card.Name, card.Level))
		}
	}
	if r.CritLevel != nil && (*r.CritLevel < 0 || *r.CritLevel > 100) {
		errs = append(errs, fmt.Errorf("crit level must be between 0 and 100, got %d", *r.CritLevel))
	}
	if r.Legendarity != nil && *r.Legendarity < 0 {
		errs = append(errs, fmt.Errorf("legendarity cannot be negative, got %d", *r.Legendarity))
	}
	if r.PerksLevel != nil && *r.PerksLevel < 0 {
		errs = append(errs, fmt.Errorf("perks level cannot be negative, got %d", *r.PerksLevel))
	}
	if r.HeroLevel != nil && *r.HeroLevel < 1 {
		errs = append(errs, fmt.Errorf("hero level must be positive, got %d", *r.HeroLevel))
	}
	if r.HeroItemLevel != nil {
		if r.HeroItem == nil {
			errs = append(errs, errors.New("hero item level given without a hero item"))
		} else if *r.HeroItemLevel < 1 {
			errs = append(errs, fmt.Errorf("hero item level must be positive, got %d", *r.HeroItemLevel))
		}
	}

	return errors.Join(errs...)
}

// ToParticipant fills defaults for every absent field so the record can be
// written to the participant store.
func (r *RegistrationRecord) ToParticipant(guildID int64, username string) *Participant {
	cards := r.Cards
	if cards == nil {
		cards = []Card{}
	}
	return &Participant{
		GuildID:       guildID,
		DiscordID:     r.DiscordID,
		Username:      username,
		GameUsername:  stringOr(r.GameUsername, ""),
		GameID:        stringOr(r.GameID, ""),
		CritLevel:     intOr(r.CritLevel, 0),
		Legendarity:   intOr(r.Legendarity, 0),
		PerksLevel:    intOr(r.PerksLevel, 0),
		Division:      stringOr(r.Division, DefaultDivision),
		Timezone:      stringOr(r.Timezone, DefaultTimezone),
		Community:     stringOr(r.Community, ""),
		Hero:          stringOr(r.Hero, ""),
		HeroLevel:     intOr(r.HeroLevel, DefaultHeroLevel),
		HeroItem:      r.HeroItem,
		HeroItemLevel: r.HeroItemLevel,
		Cards:         cards,
		Status:        ParticipantStatusPending,
	}
}

// HasCard reports whether the deck already contains the named card
func (r *RegistrationRecord) HasCard(name string) bool {
	for _, card := range r.Cards {
		if strings.EqualFold(card.Name, name) {
			return true
		}
	}
	return false
}

// StringPtr, IntPtr and Int64Ptr are helpers for building optional fields
func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func Int64Ptr(i int64) *int64 { return &i }

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
