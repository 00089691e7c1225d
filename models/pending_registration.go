package models

import (
	"time"

	"github.com/google/uuid"
)

// PendingStatus is the state of a submitted registration awaiting review
type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "pending"
	PendingStatusApproved PendingStatus = "approved"
	PendingStatusRejected PendingStatus = "rejected"
	// PendingStatusAbandoned marks a registration whose summary never reached moderators
	PendingStatusAbandoned PendingStatus = "abandoned"
)

// PendingRegistration is the stored form of a registration under review. The
// rendered summary references it through its token.
type PendingRegistration struct {
	Token     uuid.UUID           `db:"token"`
	GuildID   int64               `db:"guild_id"`
	DiscordID int64               `db:"discord_id"`
	Username  string              `db:"username"`
	Source    string              `db:"source"`
	Record    *RegistrationRecord `db:"record"` // jsonb, cleared on rejection
	Status    PendingStatus       `db:"status"`
	ChannelID *int64              `db:"channel_id"`
	MessageID *int64              `db:"message_id"`
	DecidedBy *int64              `db:"decided_by"`
	DecidedAt *time.Time          `db:"decided_at"`
	CreatedAt time.Time           `db:"created_at"`
}

// IsPending returns true while no moderator has decided the registration
func (p *PendingRegistration) IsPending() bool {
	return p.Status == PendingStatusPending
}

// Registration sources shown in the summary footer
const (
	SourceBrowser = "Browser"
	SourceDiscord = "Discord"
	SourceImport  = "Import"
)
