package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/events"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/stretchr/testify/mock"
)

// MockParticipantRepository is a mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) AddParticipant(ctx context.Context, participant *models.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) ApproveParticipant(ctx context.Context, discordID int64) error {
	args := m.Called(ctx, discordID)
	return args.Error(0)
}

func (m *MockParticipantRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Participant, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ListApproved(ctx context.Context) ([]*models.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) CountByDivision(ctx context.Context) ([]models.DivisionCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DivisionCount), args.Error(1)
}

// MockPendingRegistrationRepository is a mock implementation of PendingRegistrationRepository
type MockPendingRegistrationRepository struct {
	mock.Mock
}

func (m *MockPendingRegistrationRepository) Create(ctx context.Context, pending *models.PendingRegistration) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingRegistrationRepository) GetByToken(ctx context.Context, token uuid.UUID) (*models.PendingRegistration, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingRegistration), args.Error(1)
}

func (m *MockPendingRegistrationRepository) SetMessage(ctx context.Context, token uuid.UUID, channelID, messageID int64) error {
	args := m.Called(ctx, token, channelID, messageID)
	return args.Error(0)
}

func (m *MockPendingRegistrationRepository) MarkDecided(ctx context.Context, token uuid.UUID, status models.PendingStatus, moderatorID int64) (bool, error) {
	args := m.Called(ctx, token, status, moderatorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPendingRegistrationRepository) ListStale(ctx context.Context, createdBefore time.Time) ([]*models.PendingRegistration, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingRegistration), args.Error(1)
}

func (m *MockPendingRegistrationRepository) GetGuildsWithPending(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockApprovalDecisionRepository is a mock implementation of ApprovalDecisionRepository
type MockApprovalDecisionRepository struct {
	mock.Mock
}

func (m *MockApprovalDecisionRepository) Record(ctx context.Context, decision *models.ApprovalDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *MockApprovalDecisionRepository) ListByDiscordID(ctx context.Context, discordID int64) ([]*models.ApprovalDecision, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ApprovalDecision), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *models.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the embedded mocks so tests set expectations on them directly.
type MockUnitOfWork struct {
	mock.Mock
	Participants  *MockParticipantRepository
	Pending       *MockPendingRegistrationRepository
	Decisions     *MockApprovalDecisionRepository
	GuildSettings *MockGuildSettingsRepository
	Events        *MockEventPublisher
}

// NewMockUnitOfWork creates a MockUnitOfWork with fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Participants:  new(MockParticipantRepository),
		Pending:       new(MockPendingRegistrationRepository),
		Decisions:     new(MockApprovalDecisionRepository),
		GuildSettings: new(MockGuildSettingsRepository),
		Events:        new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ParticipantRepository() ParticipantRepository {
	return m.Participants
}

func (m *MockUnitOfWork) PendingRegistrationRepository() PendingRegistrationRepository {
	return m.Pending
}

func (m *MockUnitOfWork) ApprovalDecisionRepository() ApprovalDecisionRepository {
	return m.Decisions
}

func (m *MockUnitOfWork) GuildSettingsRepository() GuildSettingsRepository {
	return m.GuildSettings
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.Events
}

// AssertAllExpectations asserts expectations on the unit of work and its repositories
func (m *MockUnitOfWork) AssertAllExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.Participants.AssertExpectations(t)
	m.Pending.AssertExpectations(t)
	m.Decisions.AssertExpectations(t)
	m.GuildSettings.AssertExpectations(t)
	m.Events.AssertExpectations(t)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	args := m.Called(guildID)
	return args.Get(0).(UnitOfWork)
}

// MockMemberDirectory is a mock implementation of MemberDirectory
type MockMemberDirectory struct {
	mock.Mock
}

func (m *MockMemberDirectory) ResolveUser(ctx context.Context, guildID, discordID int64) (*UserInfo, error) {
	args := m.Called(ctx, guildID, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserInfo), args.Error(1)
}

func (m *MockMemberDirectory) GrantParticipantRole(ctx context.Context, guildID, discordID int64) error {
	args := m.Called(ctx, guildID, discordID)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyApproved(ctx context.Context, discordID int64, notice DecisionNotice) error {
	args := m.Called(ctx, discordID, notice)
	return args.Error(0)
}

func (m *MockNotifier) NotifyRejected(ctx context.Context, discordID int64, notice DecisionNotice) error {
	args := m.Called(ctx, discordID, notice)
	return args.Error(0)
}

// MockRegistrationPoster is a mock implementation of RegistrationPoster
type MockRegistrationPoster struct {
	mock.Mock
}

func (m *MockRegistrationPoster) PostPending(ctx context.Context, pending *models.PendingRegistration, summary models.RegistrationSummary, exportCode string) (int64, int64, error) {
	args := m.Called(ctx, pending, summary, exportCode)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockSubmissionService is a mock implementation of SubmissionService
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmissionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SubmissionResult), args.Error(1)
}

// MockGuildSettingsService is a mock implementation of GuildSettingsService
type MockGuildSettingsService struct {
	mock.Mock
}

func (m *MockGuildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsService) UpdateParticipantRole(ctx context.Context, guildID int64, roleID *int64) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

func (m *MockGuildSettingsService) UpdateModeratorRole(ctx context.Context, guildID int64, roleID *int64) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

func (m *MockGuildSettingsService) UpdateReviewCategory(ctx context.Context, guildID int64, categoryID *int64) error {
	args := m.Called(ctx, guildID, categoryID)
	return args.Error(0)
}

func (m *MockGuildSettingsService) UpdateCommunities(ctx context.Context, guildID int64, communities []string) error {
	args := m.Called(ctx, guildID, communities)
	return args.Error(0)
}
