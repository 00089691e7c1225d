package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// guildSettingsService implements the GuildSettingsService interface
type guildSettingsService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(uowFactory UnitOfWorkFactory) GuildSettingsService {
	return &guildSettingsService{
		uowFactory: uowFactory,
	}
}

// GetOrCreateSettings retrieves guild settings or creates default ones if not found
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings: %w", err)
	}

	// Commit in case default settings were created
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settings, nil
}

func (s *guildSettingsService) UpdateParticipantRole(ctx context.Context, guildID int64, roleID *int64) error {
	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.ParticipantRoleID = roleID
	})
}

func (s *guildSettingsService) UpdateModeratorRole(ctx context.Context, guildID int64, roleID *int64) error {
	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.ModeratorRoleID = roleID
	})
}

func (s *guildSettingsService) UpdateReviewCategory(ctx context.Context, guildID int64, categoryID *int64) error {
	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.ReviewCategoryID = categoryID
	})
}

// UpdateCommunities stores the trimmed, de-duplicated community names. An
// empty list restores the defaults.
func (s *guildSettingsService) UpdateCommunities(ctx context.Context, guildID int64, communities []string) error {
	cleaned := make([]string, 0, len(communities))
	seen := make(map[string]bool, len(communities))
	for _, c := range communities {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, c)
	}

	return s.update(ctx, guildID, func(settings *models.GuildSettings) {
		settings.Communities = cleaned
	})
}

func (s *guildSettingsService) update(ctx context.Context, guildID int64, apply func(*models.GuildSettings)) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	apply(settings)

	if err := uow.GuildSettingsRepository().UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
