package models

import (
	"time"

	"github.com/google/uuid"
)

// DecisionOutcome is the result of a moderator review
type DecisionOutcome string

const (
	DecisionApproved DecisionOutcome = "approved"
	DecisionRejected DecisionOutcome = "rejected"
)

// ApprovalDecision is the audit entry written for every approve or reject.
// RegistrationRef is nil for summaries that predate stored pending registrations.
type ApprovalDecision struct {
	ID              int64           `db:"id"`
	GuildID         int64           `db:"guild_id"`
	RegistrationRef *uuid.UUID      `db:"registration_ref"`
	DiscordID       int64           `db:"discord_id"`
	Outcome         DecisionOutcome `db:"outcome"`
	ModeratorID     int64           `db:"moderator_id"`
	Timestamp       time.Time       `db:"decided_at"`
}
