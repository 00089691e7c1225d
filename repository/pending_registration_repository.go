package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/database"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/jackc/pgx/v5"
)

// PendingRegistrationRepository implements service.PendingRegistrationRepository
type PendingRegistrationRepository struct {
	q       queryable
	guildID int64
}

// NewPendingRegistrationRepository creates a pending registration repository outside a transaction
func NewPendingRegistrationRepository(db *database.DB, guildID int64) *PendingRegistrationRepository {
	return &PendingRegistrationRepository{q: db.Pool, guildID: guildID}
}

func newPendingRegistrationRepository(q queryable, guildID int64) *PendingRegistrationRepository {
	return &PendingRegistrationRepository{q: q, guildID: guildID}
}

const pendingColumns = `
	token, guild_id, discord_id, username, source, record, status,
	channel_id, message_id, decided_by, decided_at, created_at`

// Create stores a new pending registration
func (r *PendingRegistrationRepository) Create(ctx context.Context, pending *models.PendingRegistration) error {
	var recordJSON []byte
	if pending.Record != nil {
		var err error
		recordJSON, err = json.Marshal(pending.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal registration record: %w", err)
		}
	}

	if pending.Token == uuid.Nil {
		pending.Token = uuid.New()
	}
	if pending.Status == "" {
		pending.Status = models.PendingStatusPending
	}

	query := `
		INSERT INTO pending_registrations (token, guild_id, discord_id, username, source, record, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		pending.Token,
		r.guildID,
		pending.DiscordID,
		pending.Username,
		pending.Source,
		recordJSON,
		pending.Status,
	).Scan(&pending.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pending registration for %d: %w", pending.DiscordID, err)
	}

	pending.GuildID = r.guildID
	return nil
}

// GetByToken retrieves a pending registration by its token
func (r *PendingRegistrationRepository) GetByToken(ctx context.Context, token uuid.UUID) (*models.PendingRegistration, error) {
	query := `SELECT ` + pendingColumns + `
		FROM pending_registrations
		WHERE guild_id = $1 AND token = $2
	`

	pending, err := scanPending(r.q.QueryRow(ctx, query, r.guildID, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending registration %s: %w", token, err)
	}

	return pending, nil
}

// SetMessage records the channel and message holding the review summary
func (r *PendingRegistrationRepository) SetMessage(ctx context.Context, token uuid.UUID, channelID, messageID int64) error {
	query := `
		UPDATE pending_registrations
		SET channel_id = $3, message_id = $4
		WHERE guild_id = $1 AND token = $2
	`

	result, err := r.q.Exec(ctx, query, r.guildID, token, channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set message for pending registration %s: %w", token, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pending registration %s not found", token)
	}

	return nil
}

// MarkDecided moves the registration out of pending. Only the first caller
// wins; later callers get false. Rejected registrations drop their payload.
// A zero moderatorID leaves decided_by empty.
func (r *PendingRegistrationRepository) MarkDecided(ctx context.Context, token uuid.UUID, status models.PendingStatus, moderatorID int64) (bool, error) {
	if status == models.PendingStatusPending {
		return false, fmt.Errorf("cannot mark registration %s as pending", token)
	}

	query := `
		UPDATE pending_registrations
		SET status = $3,
		    decided_by = NULLIF($4::BIGINT, 0),
		    decided_at = NOW(),
		    record = CASE WHEN $3 = 'rejected' THEN NULL ELSE record END
		WHERE guild_id = $1 AND token = $2 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, r.guildID, token, string(status), moderatorID)
	if err != nil {
		return false, fmt.Errorf("failed to mark pending registration %s as %s: %w", token, status, err)
	}

	return result.RowsAffected() == 1, nil
}

// ListStale returns registrations still awaiting review that were created before the cutoff
func (r *PendingRegistrationRepository) ListStale(ctx context.Context, createdBefore time.Time) ([]*models.PendingRegistration, error) {
	query := `SELECT ` + pendingColumns + `
		FROM pending_registrations
		WHERE guild_id = $1 AND status = 'pending' AND created_at < $2
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, r.guildID, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale registrations: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingRegistration
	for rows.Next() {
		pending, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending registration: %w", err)
		}
		result = append(result, pending)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending registrations: %w", err)
	}

	return result, nil
}

// GetGuildsWithPending returns all guilds with registrations awaiting review.
// Not guild scoped.
func (r *PendingRegistrationRepository) GetGuildsWithPending(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT guild_id
		FROM pending_registrations
		WHERE status = 'pending'
		ORDER BY guild_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get guilds with pending registrations: %w", err)
	}
	defer rows.Close()

	var guildIDs []int64
	for rows.Next() {
		var guildID int64
		if err := rows.Scan(&guildID); err != nil {
			return nil, fmt.Errorf("failed to scan guild ID: %w", err)
		}
		guildIDs = append(guildIDs, guildID)
	}

	return guildIDs, rows.Err()
}

func scanPending(row pgx.Row) (*models.PendingRegistration, error) {
	var p models.PendingRegistration
	var recordJSON []byte
	err := row.Scan(
		&p.Token,
		&p.GuildID,
		&p.DiscordID,
		&p.Username,
		&p.Source,
		&recordJSON,
		&p.Status,
		&p.ChannelID,
		&p.MessageID,
		&p.DecidedBy,
		&p.DecidedAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(recordJSON) > 0 {
		var record models.RegistrationRecord
		if err := json.Unmarshal(recordJSON, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal registration record: %w", err)
		}
		p.Record = &record
	}

	return &p, nil
}
