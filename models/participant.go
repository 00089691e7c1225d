package models

import (
	"time"
)

// ParticipantStatus represents whether a participant has been approved
type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusApproved ParticipantStatus = "approved"
)

// Participant is a durable tournament entry scoped to a guild
type Participant struct {
	ID            int64             `db:"id"`
	GuildID       int64             `db:"guild_id"`
	DiscordID     int64             `db:"discord_id"`
	Username      string            `db:"username"`
	GameUsername  string            `db:"game_username"`
	GameID        string            `db:"game_id"`
	CritLevel     int               `db:"crit_level"`
	Legendarity   int               `db:"legendarity"`
	PerksLevel    int               `db:"perks_level"`
	Division      string            `db:"division"`
	Timezone      string            `db:"timezone"`
	Community     string            `db:"community"`
	Hero          string            `db:"hero"`
	HeroLevel     int               `db:"hero_level"`
	HeroItem      *string           `db:"hero_item"`       // Nullable
	HeroItemLevel *int              `db:"hero_item_level"` // Nullable
	Cards         []Card            `db:"cards"`           // jsonb
	Status        ParticipantStatus `db:"status"`
	ApprovedAt    *time.Time        `db:"approved_at"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}

// IsApproved returns true once a moderator has approved the participant
func (p *Participant) IsApproved() bool {
	return p.Status == ParticipantStatusApproved
}

// DivisionCount is the number of approved participants in a division
type DivisionCount struct {
	Division string
	Count    int
}
