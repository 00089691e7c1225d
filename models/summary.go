package models

// Field labels of the rendered registration summary. Previously posted
// summaries are parsed by these labels, so they must not change.
const (
	LabelDiscordUser    = "👤 Discord User"
	LabelUsername       = "📝 Username"
	LabelGameUsername   = "🎮 Game Username"
	LabelGameID         = "🆔 Game ID"
	LabelCommunity      = "🏛️ Community"
	LabelTimezone       = "🕐 Timezone"
	LabelHero           = "🦸 Hero"
	LabelHeroItem       = "⭐ Hero Item"
	LabelPerksLevel     = "🎯 Perks Level"
	LabelDeck           = "🃏 Deck (5 Cards)"
	LabelStrength       = "📊 Calculated Strength"
	LabelExportCode     = "📋 Export Code"
	SummaryPendingColor = 0xFFA500
)

// SummaryField is one labeled entry of a rendered summary
type SummaryField struct {
	Label  string
	Value  string
	Inline bool
}

// RegistrationSummary is the moderator-facing view of a registration.
// HasControls is false once the summary reached a terminal state.
type RegistrationSummary struct {
	Title       string
	Description string
	Content     string
	Color       int
	Fields      []SummaryField
	Footer      string
	HasControls bool
}

// Field returns the first field whose label matches exactly
func (s *RegistrationSummary) Field(label string) (SummaryField, bool) {
	for _, f := range s.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return SummaryField{}, false
}

// Strength is the seeding strength derived from a registration
type Strength struct {
	BaseCrit      int
	AdjustedCrit  int
	Legendarity   int
	Perks         int
	Total         int
	Division      string
	PantheonBonus []PantheonBonus
}

// PantheonBonus is a crit bonus granted by a pantheon card in the deck
type PantheonBonus struct {
	Card    string
	Percent int
}
