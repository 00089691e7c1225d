package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/haliguyr1-cmyk/RRTournament/database"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/jackc/pgx/v5"
)

// ParticipantRepository implements service.ParticipantRepository for one guild
type ParticipantRepository struct {
	q       queryable
	guildID int64
}

// NewParticipantRepository creates a participant repository outside a transaction
func NewParticipantRepository(db *database.DB, guildID int64) *ParticipantRepository {
	return &ParticipantRepository{q: db.Pool, guildID: guildID}
}

func newParticipantRepository(q queryable, guildID int64) *ParticipantRepository {
	return &ParticipantRepository{q: q, guildID: guildID}
}

const participantColumns = `
	id, guild_id, discord_id, username, game_username, game_id,
	crit_level, legendarity, perks_level, division, timezone, community,
	hero, hero_level, hero_item, hero_item_level, cards, status,
	approved_at, created_at, updated_at`

// AddParticipant inserts the participant or overwrites the existing row for the
// same discord id. Approval state is left untouched on conflict.
func (r *ParticipantRepository) AddParticipant(ctx context.Context, p *models.Participant) error {
	cards := p.Cards
	if cards == nil {
		cards = []models.Card{}
	}
	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("failed to marshal cards: %w", err)
	}

	status := p.Status
	if status == "" {
		status = models.ParticipantStatusPending
	}

	query := `
		INSERT INTO participants (
			guild_id, discord_id, username, game_username, game_id,
			crit_level, legendarity, perks_level, division, timezone, community,
			hero, hero_level, hero_item, hero_item_level, cards, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (guild_id, discord_id) DO UPDATE SET
			username        = EXCLUDED.username,
			game_username   = EXCLUDED.game_username,
			game_id         = EXCLUDED.game_id,
			crit_level      = EXCLUDED.crit_level,
			legendarity     = EXCLUDED.legendarity,
			perks_level     = EXCLUDED.perks_level,
			division        = EXCLUDED.division,
			timezone        = EXCLUDED.timezone,
			community       = EXCLUDED.community,
			hero            = EXCLUDED.hero,
			hero_level      = EXCLUDED.hero_level,
			hero_item       = EXCLUDED.hero_item,
			hero_item_level = EXCLUDED.hero_item_level,
			cards           = EXCLUDED.cards,
			updated_at      = NOW()
		RETURNING id, created_at, updated_at
	`

	err = r.q.QueryRow(ctx, query,
		r.guildID,
		p.DiscordID,
		p.Username,
		p.GameUsername,
		p.GameID,
		p.CritLevel,
		p.Legendarity,
		p.PerksLevel,
		p.Division,
		p.Timezone,
		p.Community,
		p.Hero,
		p.HeroLevel,
		p.HeroItem,
		p.HeroItemLevel,
		cardsJSON,
		status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to add participant %d: %w", p.DiscordID, err)
	}

	p.GuildID = r.guildID
	return nil
}

// ApproveParticipant marks the participant approved. Approving twice keeps the
// first approval time.
func (r *ParticipantRepository) ApproveParticipant(ctx context.Context, discordID int64) error {
	query := `
		UPDATE participants
		SET status = 'approved',
		    approved_at = COALESCE(approved_at, NOW()),
		    updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, r.guildID, discordID)
	if err != nil {
		return fmt.Errorf("failed to approve participant %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("participant with discord ID %d not found", discordID)
	}

	return nil
}

// GetByDiscordID retrieves a participant by their Discord ID
func (r *ParticipantRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE guild_id = $1 AND discord_id = $2
	`

	p, err := scanParticipant(r.q.QueryRow(ctx, query, r.guildID, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant by discord ID %d: %w", discordID, err)
	}

	return p, nil
}

// ListApproved returns approved participants ordered by division then game username
func (r *ParticipantRepository) ListApproved(ctx context.Context) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE guild_id = $1 AND status = 'approved'
		ORDER BY division, LOWER(game_username), discord_id
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// CountByDivision returns approved participant counts per division
func (r *ParticipantRepository) CountByDivision(ctx context.Context) ([]models.DivisionCount, error) {
	query := `
		SELECT division, COUNT(*)
		FROM participants
		WHERE guild_id = $1 AND status = 'approved'
		GROUP BY division
		ORDER BY division
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants by division: %w", err)
	}
	defer rows.Close()

	var counts []models.DivisionCount
	for rows.Next() {
		var c models.DivisionCount
		if err := rows.Scan(&c.Division, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan division count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func scanParticipant(row pgx.Row) (*models.Participant, error) {
	var p models.Participant
	var cardsJSON []byte
	err := row.Scan(
		&p.ID,
		&p.GuildID,
		&p.DiscordID,
		&p.Username,
		&p.GameUsername,
		&p.GameID,
		&p.CritLevel,
		&p.Legendarity,
		&p.PerksLevel,
		&p.Division,
		&p.Timezone,
		&p.Community,
		&p.Hero,
		&p.HeroLevel,
		&p.HeroItem,
		&p.HeroItemLevel,
		&cardsJSON,
		&p.Status,
		&p.ApprovedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(cardsJSON) > 0 {
		if err := json.Unmarshal(cardsJSON, &p.Cards); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cards: %w", err)
		}
	}

	return &p, nil
}
