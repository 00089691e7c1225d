package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/events"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	log "github.com/sirupsen/logrus"
)

// SubmitRequest is a completed registration from any intake channel
type SubmitRequest struct {
	GuildID  int64
	Username string
	Source   string
	Record   models.RegistrationRecord
}

// SubmissionResult describes a registration that entered review
type SubmissionResult struct {
	Token      uuid.UUID
	ExportCode string
	Strength   models.Strength
	Summary    models.RegistrationSummary
	ChannelID  int64
	MessageID  int64
}

// submissionService implements the SubmissionService interface
type submissionService struct {
	uowFactory UnitOfWorkFactory
	poster     RegistrationPoster
	newToken   func() uuid.UUID
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(uowFactory UnitOfWorkFactory, poster RegistrationPoster) SubmissionService {
	return &submissionService{
		uowFactory: uowFactory,
		poster:     poster,
		newToken:   uuid.New,
	}
}

// Submit validates the registration, assigns its division, stores it as
// pending and posts the review summary. Strength is always recomputed here
// so a client cannot choose its own division.
func (s *submissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmissionResult, error) {
	record := req.Record

	if record.GameUsername == nil || strings.TrimSpace(*record.GameUsername) == "" {
		return nil, fmt.Errorf("%w: game username is required", ErrInvalidRegistration)
	}
	if record.Hero == nil {
		return nil, fmt.Errorf("%w: hero is required", ErrInvalidRegistration)
	}
	if err := rejectCommas(record); err != nil {
		return nil, err
	}
	if record.HeroLevel == nil {
		record.HeroLevel = models.IntPtr(models.DefaultHeroLevel)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}
	cards, err := ValidateDeck(record.Cards)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}
	record.Cards = cards

	strength := CalculateStrength(record)
	record.Division = models.StringPtr(strength.Division)

	pending := &models.PendingRegistration{
		Token:     s.newToken(),
		GuildID:   req.GuildID,
		DiscordID: record.DiscordID,
		Username:  req.Username,
		Source:    req.Source,
		Record:    &record,
		Status:    models.PendingStatusPending,
	}

	uow := s.uowFactory.CreateForGuild(req.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer uow.Rollback()

	if err := uow.PendingRegistrationRepository().Create(ctx, pending); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	uow.EventBus().Publish(events.RegistrationSubmittedEvent{
		Token:     pending.Token,
		GuildID:   req.GuildID,
		DiscordID: record.DiscordID,
		Source:    req.Source,
		Division:  strength.Division,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	exportCode := BuildExportCode(record)
	summary := RenderPendingSummary(record, req.Username, pending.Token, req.Source, strength, exportCode)

	result := &SubmissionResult{
		Token:      pending.Token,
		ExportCode: exportCode,
		Strength:   strength,
		Summary:    summary,
	}

	channelID, messageID, err := s.poster.PostPending(ctx, pending, summary, exportCode)
	if err != nil {
		if abandonErr := s.abandon(ctx, req.GuildID, pending.Token); abandonErr != nil {
			log.WithFields(log.Fields{
				"guild": req.GuildID,
				"token": pending.Token,
				"error": abandonErr,
			}).Error("Failed to abandon unposted registration")
		}
		return nil, fmt.Errorf("failed to post registration for review: %w", err)
	}
	result.ChannelID, result.MessageID = channelID, messageID

	if err := s.recordMessage(ctx, req.GuildID, pending.Token, channelID, messageID); err != nil {
		// The summary is already posted and carries the token, so review still works
		log.WithFields(log.Fields{
			"guild": req.GuildID,
			"token": pending.Token,
			"error": err,
		}).Warn("Failed to record review message location")
	}

	log.WithFields(log.Fields{
		"guild":    req.GuildID,
		"user":     record.DiscordID,
		"token":    pending.Token,
		"source":   req.Source,
		"division": strength.Division,
	}).Info("Registration submitted for review")

	return result, nil
}

// abandon closes a registration moderators never saw so it is not reported as stale
func (s *submissionService) abandon(ctx context.Context, guildID int64, token uuid.UUID) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.PendingRegistrationRepository().MarkDecided(ctx, token, models.PendingStatusAbandoned, 0); err != nil {
		return fmt.Errorf("failed to mark registration abandoned: %w", err)
	}

	return uow.Commit()
}

// rejectCommas keeps free text fields out of the comma separated export code
func rejectCommas(record models.RegistrationRecord) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"game username", record.GameUsername},
		{"game id", record.GameID},
		{"community", record.Community},
		{"timezone", record.Timezone},
	}
	for _, f := range fields {
		if f.value != nil && strings.Contains(*f.value, ",") {
			return fmt.Errorf("%w: %s cannot contain commas", ErrInvalidRegistration, f.name)
		}
	}
	return nil
}

func (s *submissionService) recordMessage(ctx context.Context, guildID int64, token uuid.UUID, channelID, messageID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PendingRegistrationRepository().SetMessage(ctx, token, channelID, messageID); err != nil {
		return fmt.Errorf("failed to set review message: %w", err)
	}

	return uow.Commit()
}
