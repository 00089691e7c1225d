package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/haliguyr1-cmyk/RRTournament/database"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/jackc/pgx/v5"
)

// GuildSettingsRepository implements service.GuildSettingsRepository
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a guild settings repository outside a transaction
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

func newGuildSettingsRepository(q queryable) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: q}
}

// GetOrCreateGuildSettings retrieves guild settings or creates default ones if not found
func (r *GuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	query := `
		SELECT guild_id, participant_role_id, moderator_role_id, review_category_id, communities
		FROM guild_settings
		WHERE guild_id = $1
	`

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.ParticipantRoleID,
		&settings.ModeratorRoleID,
		&settings.ReviewCategoryID,
		&settings.Communities,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		// Create default settings. A concurrent creator may have won the insert.
		insertQuery := `
			INSERT INTO guild_settings (guild_id)
			VALUES ($1)
			ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
			RETURNING guild_id, participant_role_id, moderator_role_id, review_category_id, communities
		`

		err = r.q.QueryRow(ctx, insertQuery, guildID).Scan(
			&settings.GuildID,
			&settings.ParticipantRoleID,
			&settings.ModeratorRoleID,
			&settings.ReviewCategoryID,
			&settings.Communities,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create guild settings: %w", err)
		}

		return &settings, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	return &settings, nil
}

// UpdateGuildSettings updates guild settings
func (r *GuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *models.GuildSettings) error {
	communities := settings.Communities
	if communities == nil {
		communities = []string{}
	}

	query := `
		UPDATE guild_settings
		SET participant_role_id = $2,
		    moderator_role_id = $3,
		    review_category_id = $4,
		    communities = $5
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.GuildID,
		settings.ParticipantRoleID,
		settings.ModeratorRoleID,
		settings.ReviewCategoryID,
		communities,
	)
	if err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild settings not found for guild %d", settings.GuildID)
	}

	return nil
}
