package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/events"
	"github.com/haliguyr1-cmyk/RRTournament/models"
)

// ParticipantRepository defines the interface for participant data access
type ParticipantRepository interface {
	// AddParticipant inserts or updates the participant keyed by guild and discord id
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// ApproveParticipant marks the participant row as approved
	ApproveParticipant(ctx context.Context, discordID int64) error

	// GetByDiscordID retrieves a participant, or nil if none exists
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Participant, error)

	// ListApproved returns every approved participant ordered by division and name
	ListApproved(ctx context.Context) ([]*models.Participant, error)

	// CountByDivision returns approved participant counts per division
	CountByDivision(ctx context.Context) ([]models.DivisionCount, error)
}

// PendingRegistrationRepository defines the interface for registrations under review
type PendingRegistrationRepository interface {
	// Create stores a new pending registration
	Create(ctx context.Context, pending *models.PendingRegistration) error

	// GetByToken retrieves a pending registration, or nil if none exists
	GetByToken(ctx context.Context, token uuid.UUID) (*models.PendingRegistration, error)

	// SetMessage records where the review summary was posted
	SetMessage(ctx context.Context, token uuid.UUID, channelID, messageID int64) error

	// MarkDecided moves a pending registration to a terminal status. It returns
	// false when the registration was no longer pending.
	MarkDecided(ctx context.Context, token uuid.UUID, status models.PendingStatus, moderatorID int64) (bool, error)

	// ListStale returns registrations still pending that were created before the cutoff
	ListStale(ctx context.Context, createdBefore time.Time) ([]*models.PendingRegistration, error)

	// GetGuildsWithPending returns guild ids that have registrations awaiting review.
	// This query is not guild scoped.
	GetGuildsWithPending(ctx context.Context) ([]int64, error)
}

// ApprovalDecisionRepository defines the interface for the decision audit log
type ApprovalDecisionRepository interface {
	// Record appends a decision
	Record(ctx context.Context, decision *models.ApprovalDecision) error

	// ListByDiscordID returns decisions for a user, newest first
	ListByDiscordID(ctx context.Context, discordID int64) ([]*models.ApprovalDecision, error)
}

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreateGuildSettings retrieves guild settings or creates default ones if not found
	GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// UpdateGuildSettings updates guild settings
	UpdateGuildSettings(ctx context.Context, settings *models.GuildSettings) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and releases queued events
	Commit() error

	// Rollback rolls back the transaction. It is a no-op after Commit.
	Rollback() error

	ParticipantRepository() ParticipantRepository
	PendingRegistrationRepository() PendingRegistrationRepository
	ApprovalDecisionRepository() ApprovalDecisionRepository
	GuildSettingsRepository() GuildSettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}

// UserInfo is what the chat platform knows about a registrant
type UserInfo struct {
	DiscordID int64
	Username  string
}

// MemberDirectory resolves users and manages guild roles on the chat platform
type MemberDirectory interface {
	// ResolveUser looks up a user by id
	ResolveUser(ctx context.Context, guildID, discordID int64) (*UserInfo, error)

	// GrantParticipantRole gives the member the guild's participant role
	GrantParticipantRole(ctx context.Context, guildID, discordID int64) error
}

// DecisionNotice carries what a registrant is told about a decision
type DecisionNotice struct {
	GuildName string
	Division  string
}

// Notifier sends direct messages to registrants
type Notifier interface {
	NotifyApproved(ctx context.Context, discordID int64, notice DecisionNotice) error
	NotifyRejected(ctx context.Context, discordID int64, notice DecisionNotice) error
}

// RegistrationPoster publishes a pending registration for moderator review and
// returns where the summary was posted.
type RegistrationPoster interface {
	PostPending(ctx context.Context, pending *models.PendingRegistration, summary models.RegistrationSummary, exportCode string) (channelID, messageID int64, err error)
}

// ApprovalWorkflow drives a pending registration to approved or rejected
type ApprovalWorkflow interface {
	// Handle dispatches a button press on a rendered summary
	Handle(ctx context.Context, event ButtonPressed) (*WorkflowResult, error)
}

// SubmissionService accepts new registrations and sends them to review
type SubmissionService interface {
	// Submit validates the registration, stores it as pending and posts it for review
	Submit(ctx context.Context, req SubmitRequest) (*SubmissionResult, error)
}

// GuildSettingsService defines the interface for guild settings operations
type GuildSettingsService interface {
	// GetOrCreateSettings retrieves guild settings or creates default ones if not found
	GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// UpdateParticipantRole sets the role granted on approval (nil uses the role named Participant)
	UpdateParticipantRole(ctx context.Context, guildID int64, roleID *int64) error

	// UpdateModeratorRole sets the role that can see and decide registrations
	UpdateModeratorRole(ctx context.Context, guildID int64, roleID *int64) error

	// UpdateReviewCategory sets the channel category review tickets are created in
	UpdateReviewCategory(ctx context.Context, guildID int64, categoryID *int64) error

	// UpdateCommunities replaces the guild's community list
	UpdateCommunities(ctx context.Context, guildID int64, communities []string) error
}

// StaleRegistrationService finds registrations nobody has reviewed
type StaleRegistrationService interface {
	// FindStale returns, per guild, pending registrations older than the configured age
	FindStale(ctx context.Context, now time.Time) ([]StaleGuildReport, error)
}

// RosterService reports on approved participants
type RosterService interface {
	// GetRoster returns approved participants grouped by division
	GetRoster(ctx context.Context, guildID int64) (*Roster, error)

	// GetDivisionCounts returns approved totals per division, divisions in ascending order
	GetDivisionCounts(ctx context.Context, guildID int64) ([]models.DivisionCount, error)

	// GetDecisionHistory returns the moderator decisions made about a user, newest first
	GetDecisionHistory(ctx context.Context, guildID, discordID int64) ([]*models.ApprovalDecision, error)
}
