package service

import (
	"errors"
	"fmt"

	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// Deck editing errors shown to the registrant
var (
	ErrUnknownCard   = errors.New("unknown card")
	ErrDuplicateCard = errors.New("card already in deck")
	ErrDeckFull      = errors.New("deck already has 5 cards")
	ErrCardLevel     = errors.New("card level out of range")
)

// AddCard appends a card to the draft deck using its canonical name
func AddCard(record *models.RegistrationRecord, name string, level int) error {
	canonical, ok := models.LookupCard(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCard, name)
	}
	if len(record.Cards) >= models.MaxDeckSize {
		return ErrDeckFull
	}
	if record.HasCard(canonical) {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, canonical)
	}
	if maxLevel := models.MaxLevelFor(canonical); level < models.MinCardLevel || level > maxLevel {
		return fmt.Errorf("%w: %s must be level %d-%d", ErrCardLevel, canonical, models.MinCardLevel, maxLevel)
	}

	record.Cards = append(record.Cards, models.Card{Name: canonical, Level: level})
	return nil
}

// ValidateDeck checks every card against the catalog and rewrites names to
// their canonical spelling
func ValidateDeck(cards []models.Card) ([]models.Card, error) {
	draft := models.RegistrationRecord{}
	for _, card := range cards {
		if err := AddCard(&draft, card.Name, card.Level); err != nil {
			return nil, err
		}
	}
	if draft.Cards == nil {
		draft.Cards = []models.Card{}
	}
	return draft.Cards, nil
}
