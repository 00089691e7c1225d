package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/haliguyr1-cmyk/RRTournament/database"
	"github.com/haliguyr1-cmyk/RRTournament/events"
	"github.com/haliguyr1-cmyk/RRTournament/service"
	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	guildID           int64
	transactionalBus  *events.TransactionalBus
	participantRepo   service.ParticipantRepository
	pendingRepo       service.PendingRegistrationRepository
	decisionRepo      service.ApprovalDecisionRepository
	guildSettingsRepo service.GuildSettingsRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// CreateForGuild creates a unit of work whose repositories only see the given guild
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		guildID:          guildID,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.participantRepo = newParticipantRepository(tx, u.guildID)
	u.pendingRepo = newPendingRegistrationRepository(tx, u.guildID)
	u.decisionRepo = newApprovalDecisionRepository(tx, u.guildID)
	u.guildSettingsRepo = newGuildSettingsRepository(tx) // settings are keyed by guild id already

	return nil
}

// Commit commits the transaction and flushes queued events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if err := u.transactionalBus.Flush(u.ctx); err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}

	return nil
}

// Rollback rolls back the transaction and discards queued events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

func (u *unitOfWork) ParticipantRepository() service.ParticipantRepository {
	if u.participantRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.participantRepo
}

func (u *unitOfWork) PendingRegistrationRepository() service.PendingRegistrationRepository {
	if u.pendingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pendingRepo
}

func (u *unitOfWork) ApprovalDecisionRepository() service.ApprovalDecisionRepository {
	if u.decisionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.decisionRepo
}

func (u *unitOfWork) GuildSettingsRepository() service.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildSettingsRepo
}

// EventBus returns the transactional bus; events reach subscribers only after Commit
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
