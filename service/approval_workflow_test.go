package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/events"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID     = int64(424242)
	testRegistrant  = int64(111111111111)
	testModeratorID = int64(999999)
)

type workflowFixture struct {
	uow       *MockUnitOfWork
	factory   *MockUnitOfWorkFactory
	directory *MockMemberDirectory
	notifier  *MockNotifier
	workflow  ApprovalWorkflow
}

func newWorkflowFixture() *workflowFixture {
	f := &workflowFixture{
		uow:       NewMockUnitOfWork(),
		factory:   new(MockUnitOfWorkFactory),
		directory: new(MockMemberDirectory),
		notifier:  new(MockNotifier),
	}
	f.factory.On("CreateForGuild", testGuildID).Return(f.uow).Maybe()
	f.workflow = NewApprovalWorkflow(f.factory, f.directory, f.notifier)
	return f
}

func (f *workflowFixture) assertExpectations(t *testing.T) {
	f.uow.AssertAllExpectations(t)
	f.factory.AssertExpectations(t)
	f.directory.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

// legacySummary is a summary posted before pending registrations were stored
func legacySummary() models.RegistrationSummary {
	return models.RegistrationSummary{
		Title:       "🌐 Browser Registration - PENDING APPROVAL",
		Description: "Please review the participant information below:",
		Color:       models.SummaryPendingColor,
		Fields: []models.SummaryField{
			{Label: "👤 Discord User", Value: fmt.Sprintf("<@%d>", testRegistrant)},
			{Label: "📝 Username", Value: "rider"},
			{Label: "🎮 Game Username", Value: "RhandumRider"},
			{Label: "🆔 Game ID", Value: "5512"},
			{Label: "🦸 Hero", Value: "Zeus (Lv 12)"},
			{Label: "🎯 Perks Level", Value: "40"},
			{Label: "🃏 Deck (5 Cards)", Value: "1. Twins - Lv 15\n2. Mime - Lv 10"},
			{Label: "📊 Calculated Strength", Value: "Base Crit: 50%\nLegendarity: 1200\nPerks: 40\nDivision: Cruiserweight"},
			{Label: "📋 Export Code", Value: "`RhandumRider,5512,50,1200,40,,,Zeus,12,None,0,Twins,15,Mime,10`"},
		},
		Footer:      fmt.Sprintf("User ID: %d | Source: Browser | Status: Pending", testRegistrant),
		HasControls: true,
	}
}

func pressed(action ButtonAction, summary models.RegistrationSummary) ButtonPressed {
	return ButtonPressed{
		Action:        action,
		Summary:       summary,
		RequesterID:   testModeratorID,
		RequesterName: "ModMan",
		GuildID:       testGuildID,
		GuildName:     "Rumble Royale",
	}
}

func (f *workflowFixture) expectUser() {
	f.directory.On("ResolveUser", mock.Anything, testGuildID, testRegistrant).
		Return(&UserInfo{DiscordID: testRegistrant, Username: "rider"}, nil)
}

func (f *workflowFixture) expectTransaction() {
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback").Return(nil)
}

func TestApprovalWorkflow_ApproveLegacySummary(t *testing.T) {
	t.Parallel()
	f := newWorkflowFixture()
	f.expectUser()
	f.expectTransaction()

	f.uow.Participants.On("AddParticipant", mock.Anything, mock.MatchedBy(func(p *models.Participant) bool {
		return p.GuildID == testGuildID &&
			p.DiscordID == testRegistrant &&
			p.Username == "rider" &&
			p.GameUsername == "RhandumRider" &&
			p.Hero == "Zeus" && p.HeroLevel == 12 &&
			p.CritLevel == 50 && p.Legendarity == 1200 && p.PerksLevel == 40 &&
			p.Division == "Cruiserweight" &&
			p.Timezone == models.DefaultTimezone &&
			p.Community == "" &&
			p.HeroItem == nil &&
			len(p.Cards) == 2
	})).Return(nil)
	f.uow.Participants.On("ApproveParticipant", mock.Anything, testRegistrant).Return(nil)
	f.uow.Decisions.On("Record", mock.Anything, mock.MatchedBy(func(d *models.ApprovalDecision) bool {
		return d.Outcome == models.DecisionApproved &&
			d.RegistrationRef == nil &&
			d.DiscordID == testRegistrant &&
			d.ModeratorID == testModeratorID &&
			d.GuildID == testGuildID
	})).Return(nil)
	f.uow.Events.On("Publish", mock.MatchedBy(func(e events.RegistrationApprovedEvent) bool {
		return e.DiscordID == testRegistrant && e.Division == "Cruiserweight" && e.Token == nil
	})).Return()
	f.uow.On("Commit").Return(nil)

	f.directory.On("GrantParticipantRole", mock.Anything, testGuildID, testRegistrant).Return(nil)
	f.notifier.On("NotifyApproved", mock.Anything, testRegistrant, DecisionNotice{GuildName: "Rumble Royale", Division: "Cruiserweight"}).Return(nil)

	result, err := f.workflow.Handle(context.Background(), pressed(ActionApprove, legacySummary()))

	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.False(t, result.Summary.HasControls)
	assert.Equal(t, "✅ Registration APPROVED", result.Summary.Title)
	assert.Contains(t, result.Summary.Footer, "Approved by ModMan")
	assert.Equal(t, fmt.Sprintf("✅ Registration approved! <@%d> has been added to the tournament.", testRegistrant), result.Ephemeral)
	f.assertExpectations(t)
}

func TestApprovalWorkflow_ApproveLegacySummaryWithUnleveledItem(t *testing.T) {
	t.Parallel()
	f := newWorkflowFixture()
	f.expectUser()
	f.expectTransaction()

	summary := legacySummary()
	summary.Fields = append(summary.Fields, models.SummaryField{Label: "⭐ Hero Item", Value: "Shield (Lv 0)"})

	f.uow.Participants.On("AddParticipant", mock.Anything, mock.MatchedBy(func(p *models.Participant) bool {
		return p.HeroItem != nil && *p.HeroItem == "Shield" && p.HeroItemLevel == nil
	})).Return(nil)
	f.uow.Participants.On("ApproveParticipant", mock.Anything, testRegistrant).Return(nil)
	f.uow.Decisions.On("Record", mock.Anything, mock.Anything).Return(nil)
	f.uow.Events.On("Publish", mock.Anything).Return()
	f.uow.On("Commit").Return(nil)
	f.directory.On("GrantParticipantRole", mock.Anything, testGuildID, testRegistrant).Return(nil)
	f.notifier.On("NotifyApproved", mock.Anything, testRegistrant, mock.Anything).Return(nil)

	result, err := f.workflow.Handle(context.Background(), pressed(ActionApprove, summary))

	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "✅ Registration APPROVED", result.Summary.Title)
	f.assertExpectations(t)
}

func TestApprovalWorkflow_ApproveUsesStoredRecord(t *testing.T) {
	t.Parallel()
	f := newWorkflowFixture()
	f.expectUser()
	f.expectTransaction()

	token := uuid.New()
	summary := legacySummary()
	summary.Footer = fmt.Sprintf("User ID: %d | Source: Browser | Status: Pending | Ref: %s", testRegistrant, token)
	// A tampered field must not reach storage
	summary.Fields[2].Value = "SomeoneElse"

	stored := &models.RegistrationRecord{
		DiscordID:    testRegistrant,
		GameUsername: models.StringPtr("RhandumRider"),
		Hero:         models.StringPtr("Zeus"),
		HeroLevel:    models.IntPtr(12),
		Division:     models.StringPtr("Heavyweight"),
		Cards:        []models.Card{{Name: "Twins", Level: 15}},
	}
	f.uow.Pending.On("GetByToken", mock.Anything, token).Return(&models.PendingRegistration{
		Token:     token,
		GuildID:   testGuildID,
		DiscordID: testRegistrant,
		Record:    stored,
		Status:    models.PendingStatusPending,
	}, nil)
	f.uow.Participants.On("AddParticipant", mock.Anything, mock.MatchedBy(func(p *models.Participant) bool {
		return p.GameUsername == "RhandumRider" && p.Division == "Heavyweight" && len(p.Cards) == 1
	})).Return(nil)
	f.uow.Participants.On("ApproveParticipant", mock.Anything, testRegistrant).Return(nil)
	f.uow.Pending.On("MarkDecided", mock.Anything, token, models.PendingStatusApproved, testModeratorID).Return(true, nil)
	f.uow.Decisions.On("Record", mock.Anything, mock.MatchedBy(func(d *models.ApprovalDecision) bool {
		return d.RegistrationRef != nil && *d.RegistrationRef == token
	})).Return(nil)
	f.uow.Events.On("Publish", mock.MatchedBy(func(e events.RegistrationApprovedEvent) bool {
		return e.Token != nil && *e.Token == token
	})).Return()
	f.uow.On("Commit").Return(nil)
	f.directory.On("GrantParticipantRole", mock.Anything, testGuildID, testRegistrant).Return(nil)
	f.notifier.On("NotifyApproved", mock.Anything, testRegistrant, mock.Anything).Return(nil)

	result, err := f.workflow.Handle(context.Background(), pressed(ActionApprove, summary))

	require.NoError(t, err)
	assert.False(t, result.Summary.HasControls)
	f.assertExpectations(t)
}

func TestApprovalWorkflow_ApproveFailuresLeaveSummaryPending(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		summary   func() models.RegistrationSummary
		setup     func(f *workflowFixture)
		expectErr error
	}{
		{
			name: "missing identifier",
			summary: func() models.RegistrationSummary {
				s := legacySummary()
				s.Fields = s.Fields[1:]
				s.Footer = "Source: Browser | Status: Pending"
				return s
			},
			setup:     func(f *workflowFixture) {},
			expectErr: ErrMissingIdentifier,
		},
		{
			name:    "user lookup fails",
			summary: legacySummary,
			setup: func(f *workflowFixture) {
				f.directory.On("ResolveUser", mock.Anything, testGuildID, testRegistrant).
					Return(nil, errors.New("404 Not Found"))
			},
			expectErr: ErrUserNotFound,
		},
		{
			name:    "begin fails",
			summary: legacySummary,
			setup: func(f *workflowFixture) {
				f.expectUser()
				f.uow.On("Begin", mock.Anything).Return(errors.New("connection refused"))
			},
			expectErr: ErrStorage,
		},
		{
			name:    "participant upsert fails",
			summary: legacySummary,
			setup: func(f *workflowFixture) {
				f.expectUser()
				f.expectTransaction()
				f.uow.Participants.On("AddParticipant", mock.Anything, mock.Anything).Return(errors.New("deadlock detected"))
			},
			expectErr: ErrStorage,
		},
		{
			name:    "approve update fails",
			summary: legacySummary,
			setup: func(f *workflowFixture) {
				f.expectUser()
				f.expectTransaction()
				f.uow.Participants.On("AddParticipant", mock.Anything, mock.Anything).Return(nil)
				f.uow.Participants.On("ApproveParticipant", mock.Anything, testRegistrant).Return(errors.New("timeout"))
			},
			expectErr: ErrStorage,
		},
		{
			name:    "commit fails",
			summary: legacySummary,
			setup: func(f *workflowFixture) {
				f.expectUser()
				f.expectTransaction()
				f.uow.Participants.On("AddParticipant", mock.Anything, mock.Anything).Return(nil)
				f.uow.Participants.On("ApproveParticipant", mock.Anything, testRegistrant).Return(nil)
				f.uow.Decisions.On("Record", mock.Anything, mock.Anything).Return(nil)
				f.uow.Events.On("Publish", mock.Anything).Return()
				f.uow.On("Commit").Return(errors.New("serialization failure"))
			},
			expectErr: ErrStorage,
		},
		{
			name: "invalid deck",
			summary: func() models.RegistrationSummary {
				s := legacySummary()
				s.Fields[6].Value = "1. Twins - Lv 15\n2. Twins - Lv 14"
				return s
			},
			setup: func(f *workflowFixture) {
				f.expectUser()
				f.expectTransaction()
			},
			expectErr: ErrInvalidRegistration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newWorkflowFixture()
			tt.setup(f)

			result, err := f.workflow.Handle(context.Background(), pressed(ActionApprove, tt.summary()))

			assert.ErrorIs(t, err, tt.expectErr)
			assert.Nil(t, result)
			f.directory.AssertNotCalled(t, "GrantParticipantRole", mock.Anything, mock.Anything, mock.Anything)
			f.notifier.AssertNotCalled(t, "NotifyApproved", mock.Anything, mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestApprovalWorkflow_BestEffortFailuresDoNotUndoApproval(t *testing.T) {
	t.Parallel()
	f := newWorkflowFixture()
	f.expectUser()
	f.expectTransaction()

	f.uow.Participants.On("AddParticipant", mock.Anything, mock.Anything).Return(nil)
	f.uow.Participants.On("ApproveParticipant", mock.Anything, testRegistrant).Return(nil)
	f.uow.Decisions.On("Record", mock.Anything, mock.Anything).Return(nil)
	f.uow.Events.On("Publish", mock.Anything).Return()
	f.uow.On("Commit").Return(nil)
	f.directory.On("GrantParticipantRole", mock.Anything, testGuildID, testRegistrant).Return(errors.New("missing permissions"))
	f.notifier.On("NotifyApproved", mock.Anything, testRegistrant, mock.Anything).Return(errors.New("cannot send messages to this user"))

	result, err := f.workflow.Handle(context.Background(), pressed(ActionApprove, legacySummary()))

	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "✅ Registration APPROVED", result.Summary.Title)
	f.assertExpectations(t)
}

func TestApprovalWorkflow_ConcurrentDecisionLosesRace(t *testing.T) {
	t.Parallel()

	token := uuid.New()
	summary := legacySummary()
	summary.Footer = fmt.Sprintf("User ID: %d | Source: Browser | Status: Pending | Ref: %s", testRegistrant, token)

	pendingRow := func(status models.PendingStatus) *models.PendingRegistration {
		return &models.PendingRegistration{
			Token:     token,
			GuildID:   testGuildID,
			DiscordID: testRegistrant,
			Record:    &models.RegistrationRecord{DiscordID: testRegistrant, Cards: []models.Card{}},
			Status:    status,
		}
	}

	t.Run("already decided before load", func(t *testing.T) {
		t.Parallel()
		f := newWorkflowFixture()
		f.expectUser()
		f.expectTransaction()
		f.uow.Pending.On("GetByToken", mock.Anything, token).Return(pendingRow(models.PendingStatusApproved), nil)

		_, err := f.workflow.Handle(context.Background(), pressed(ActionApprove, summary))

		assert.ErrorIs(t, err, ErrAlreadyDecided)
		f.uow.Participants.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("conditional update loses", func(t *testing.T) {
		t.Parallel()
		f := newWorkflowFixture()
		f.expectUser()
		f.expectTransaction()
		f.uow.Pending.On("GetByToken", mock.Anything, token).Return(pendingRow(models.PendingStatusPending), nil)
		f.uow.Participants.On("AddParticipant", mock.Anything, mock.Anything).Return(nil)
		f.uow.Participants.On("ApproveParticipant", mock.Anything, testRegistrant).Return(nil)
		f.uow.Pending.On("MarkDecided", mock.Anything, token, models.PendingStatusApproved, testModeratorID).Return(false, nil)

		_, err := f.workflow.Handle(context.Background(), pressed(ActionApprove, summary))

		assert.ErrorIs(t, err, ErrAlreadyDecided)
		f.uow.AssertNotCalled(t, "Commit")
		f.notifier.AssertNotCalled(t, "NotifyApproved", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestApprovalWorkflow_Reject(t *testing.T) {
	t.Parallel()
	f := newWorkflowFixture()
	f.expectUser()
	f.expectTransaction()

	f.uow.Decisions.On("Record", mock.Anything, mock.MatchedBy(func(d *models.ApprovalDecision) bool {
		return d.Outcome == models.DecisionRejected && d.DiscordID == testRegistrant
	})).Return(nil)
	f.uow.Events.On("Publish", mock.MatchedBy(func(e events.RegistrationRejectedEvent) bool {
		return e.DiscordID == testRegistrant && e.ModeratorID == testModeratorID
	})).Return()
	f.uow.On("Commit").Return(nil)
	f.notifier.On("NotifyRejected", mock.Anything, testRegistrant, DecisionNotice{GuildName: "Rumble Royale"}).Return(errors.New("dm closed"))

	result, err := f.workflow.Handle(context.Background(), pressed(ActionReject, legacySummary()))

	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.False(t, result.Summary.HasControls)
	assert.Equal(t, "❌ Registration REJECTED", result.Summary.Title)
	assert.Contains(t, result.Summary.Footer, "Rejected by ModMan")
	f.uow.Participants.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything)
	f.directory.AssertNotCalled(t, "GrantParticipantRole", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestApprovalWorkflow_RejectStoredRegistration(t *testing.T) {
	t.Parallel()
	f := newWorkflowFixture()
	f.expectUser()
	f.expectTransaction()

	token := uuid.New()
	summary := legacySummary()
	summary.Footer = fmt.Sprintf("User ID: %d | Ref: %s", testRegistrant, token)

	f.uow.Pending.On("GetByToken", mock.Anything, token).Return(&models.PendingRegistration{
		Token: token, GuildID: testGuildID, DiscordID: testRegistrant, Status: models.PendingStatusPending,
	}, nil)
	f.uow.Pending.On("MarkDecided", mock.Anything, token, models.PendingStatusRejected, testModeratorID).Return(true, nil)
	f.uow.Decisions.On("Record", mock.Anything, mock.Anything).Return(nil)
	f.uow.Events.On("Publish", mock.Anything).Return()
	f.uow.On("Commit").Return(nil)
	f.notifier.On("NotifyRejected", mock.Anything, testRegistrant, mock.Anything).Return(nil)

	result, err := f.workflow.Handle(context.Background(), pressed(ActionReject, summary))

	require.NoError(t, err)
	assert.Equal(t, "❌ Registration REJECTED", result.Summary.Title)
	f.assertExpectations(t)
}

func TestApprovalWorkflow_DecidedSummaryIsNoOp(t *testing.T) {
	t.Parallel()

	decided := ApplyDecision(legacySummary(), models.DecisionRejected, testModeratorID, "ModMan")

	for _, action := range []ButtonAction{ActionApprove, ActionReject, ActionCopyExport} {
		f := newWorkflowFixture()

		result, err := f.workflow.Handle(context.Background(), pressed(action, decided))

		require.NoError(t, err)
		assert.True(t, result.NoOp, action.String())
		assert.Nil(t, result.Summary)
		f.factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
		f.directory.AssertNotCalled(t, "ResolveUser", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestApprovalWorkflow_CopyExport(t *testing.T) {
	t.Parallel()
	f := newWorkflowFixture()

	result, err := f.workflow.Handle(context.Background(), pressed(ActionCopyExport, legacySummary()))
	require.NoError(t, err)
	assert.Nil(t, result.Summary)
	assert.Contains(t, result.Ephemeral, "RhandumRider,5512,50,1200,40,,,Zeus,12,None,0,Twins,15,Mime,10")
	assert.NotContains(t, result.Ephemeral, "`RhandumRider")

	summary := legacySummary()
	summary.Fields = summary.Fields[:len(summary.Fields)-1]
	_, err = f.workflow.Handle(context.Background(), pressed(ActionCopyExport, summary))
	assert.ErrorIs(t, err, ErrFieldNotFound)

	f.factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
}

func TestParseButtonAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		customID string
		action   ButtonAction
		ok       bool
	}{
		{"approve_browser_reg", ActionApprove, true},
		{"reject_browser_reg", ActionReject, true},
		{"copy_export_code", ActionCopyExport, true},
		{"approve", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		action, ok := ParseButtonAction(tt.customID)
		assert.Equal(t, tt.ok, ok, tt.customID)
		assert.Equal(t, tt.action, action, tt.customID)
		if ok {
			assert.Equal(t, tt.customID, action.CustomID())
		}
	}
}
