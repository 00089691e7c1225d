package service

import (
	"context"
	"fmt"
	"time"

	"github.com/haliguyr1-cmyk/RRTournament/models"
	log "github.com/sirupsen/logrus"
)

// StaleGuildReport lists one guild's registrations that have waited too long
type StaleGuildReport struct {
	GuildID       int64
	Registrations []*models.PendingRegistration
}

// staleRegistrationService implements the StaleRegistrationService interface
type staleRegistrationService struct {
	uowFactory UnitOfWorkFactory
	maxAge     time.Duration
}

// NewStaleRegistrationService creates a service reporting registrations
// pending for longer than maxAge
func NewStaleRegistrationService(uowFactory UnitOfWorkFactory, maxAge time.Duration) StaleRegistrationService {
	return &staleRegistrationService{
		uowFactory: uowFactory,
		maxAge:     maxAge,
	}
}

func (s *staleRegistrationService) FindStale(ctx context.Context, now time.Time) ([]StaleGuildReport, error) {
	// Guild 0 is only used for the unscoped guild list
	listUow := s.uowFactory.CreateForGuild(0)
	if err := listUow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	guildIDs, err := listUow.PendingRegistrationRepository().GetGuildsWithPending(ctx)
	listUow.Rollback()
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds with pending registrations: %w", err)
	}

	cutoff := now.Add(-s.maxAge)
	var reports []StaleGuildReport
	for _, guildID := range guildIDs {
		stale, err := s.findGuildStale(ctx, guildID, cutoff)
		if err != nil {
			log.WithFields(log.Fields{
				"guild": guildID,
				"error": err,
			}).Error("Failed to check stale registrations")
			continue
		}
		if len(stale) > 0 {
			reports = append(reports, StaleGuildReport{GuildID: guildID, Registrations: stale})
		}
	}

	return reports, nil
}

func (s *staleRegistrationService) findGuildStale(ctx context.Context, guildID int64, cutoff time.Time) ([]*models.PendingRegistration, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PendingRegistrationRepository().ListStale(ctx, cutoff)
}
