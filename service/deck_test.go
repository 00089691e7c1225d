package service

import (
	"testing"

	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCard(t *testing.T) {
	t.Parallel()

	full := models.RegistrationRecord{Cards: []models.Card{
		{Name: "Bard", Level: 1}, {Name: "Hex", Level: 1}, {Name: "Mime", Level: 1},
		{Name: "Monk", Level: 1}, {Name: "Genie", Level: 1},
	}}

	tests := []struct {
		name      string
		record    models.RegistrationRecord
		card      string
		level     int
		expectErr error
	}{
		{name: "unknown card", card: "Dragon", level: 5, expectErr: ErrUnknownCard},
		{name: "deck full", record: full, card: "Twins", level: 5, expectErr: ErrDeckFull},
		{
			name:      "duplicate ignores case",
			record:    models.RegistrationRecord{Cards: []models.Card{{Name: "Twins", Level: 3}}},
			card:      "twins",
			level:     4,
			expectErr: ErrDuplicateCard,
		},
		{name: "regular card above 15", card: "Mime", level: 16, expectErr: ErrCardLevel},
		{name: "level zero", card: "Mime", level: 0, expectErr: ErrCardLevel},
		{name: "legendary card at 18", card: "valkerie", level: 18},
		{name: "regular card at 15", card: "Mime", level: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record := tt.record
			record.Cards = append([]models.Card(nil), tt.record.Cards...)
			before := len(record.Cards)

			err := AddCard(&record, tt.card, tt.level)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Len(t, record.Cards, before)
				return
			}
			require.NoError(t, err)
			require.Len(t, record.Cards, before+1)
			canonical, _ := models.LookupCard(tt.card)
			assert.Equal(t, models.Card{Name: canonical, Level: tt.level}, record.Cards[before])
		})
	}
}

func TestValidateDeck(t *testing.T) {
	t.Parallel()

	cards, err := ValidateDeck([]models.Card{{Name: "franky & stein", Level: 16}, {Name: "MIME", Level: 2}})
	require.NoError(t, err)
	assert.Equal(t, []models.Card{{Name: "Franky & Stein", Level: 16}, {Name: "Mime", Level: 2}}, cards)

	cards, err = ValidateDeck(nil)
	require.NoError(t, err)
	assert.Equal(t, []models.Card{}, cards)

	_, err = ValidateDeck([]models.Card{{Name: "Mime", Level: 2}, {Name: "Mime", Level: 3}})
	assert.ErrorIs(t, err, ErrDuplicateCard)
}
