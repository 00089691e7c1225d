package repository

import (
	"context"
	"fmt"

	"github.com/haliguyr1-cmyk/RRTournament/database"
	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// ApprovalDecisionRepository implements service.ApprovalDecisionRepository
type ApprovalDecisionRepository struct {
	q       queryable
	guildID int64
}

// NewApprovalDecisionRepository creates a decision repository outside a transaction
func NewApprovalDecisionRepository(db *database.DB, guildID int64) *ApprovalDecisionRepository {
	return &ApprovalDecisionRepository{q: db.Pool, guildID: guildID}
}

func newApprovalDecisionRepository(q queryable, guildID int64) *ApprovalDecisionRepository {
	return &ApprovalDecisionRepository{q: q, guildID: guildID}
}

// Record appends a decision to the audit log
func (r *ApprovalDecisionRepository) Record(ctx context.Context, decision *models.ApprovalDecision) error {
	query := `
		INSERT INTO approval_decisions (guild_id, registration_ref, discord_id, outcome, moderator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, decided_at
	`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		decision.RegistrationRef,
		decision.DiscordID,
		decision.Outcome,
		decision.ModeratorID,
	).Scan(&decision.ID, &decision.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record %s decision for %d: %w", decision.Outcome, decision.DiscordID, err)
	}

	decision.GuildID = r.guildID
	return nil
}

// ListByDiscordID returns the decisions made about a user, newest first
func (r *ApprovalDecisionRepository) ListByDiscordID(ctx context.Context, discordID int64) ([]*models.ApprovalDecision, error) {
	query := `
		SELECT id, guild_id, registration_ref, discord_id, outcome, moderator_id, decided_at
		FROM approval_decisions
		WHERE guild_id = $1 AND discord_id = $2
		ORDER BY decided_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions for %d: %w", discordID, err)
	}
	defer rows.Close()

	var decisions []*models.ApprovalDecision
	for rows.Next() {
		var d models.ApprovalDecision
		err := rows.Scan(
			&d.ID,
			&d.GuildID,
			&d.RegistrationRef,
			&d.DiscordID,
			&d.Outcome,
			&d.ModeratorID,
			&d.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decisions: %w", err)
	}

	return decisions, nil
}
