package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haliguyr1-cmyk/RRTournament/events"
	"github.com/haliguyr1-cmyk/RRTournament/models"
	log "github.com/sirupsen/logrus"
)

// ButtonAction is the closed set of controls on a pending summary
type ButtonAction int

const (
	ActionApprove ButtonAction = iota + 1
	ActionReject
	ActionCopyExport
)

// Control identifiers attached to the summary buttons. Already posted
// summaries carry these, so they must not change.
const (
	CustomIDApprove    = "approve_browser_reg"
	CustomIDReject     = "reject_browser_reg"
	CustomIDCopyExport = "copy_export_code"
)

// ParseButtonAction maps a control identifier to its action
func ParseButtonAction(customID string) (ButtonAction, bool) {
	switch customID {
	case CustomIDApprove:
		return ActionApprove, true
	case CustomIDReject:
		return ActionReject, true
	case CustomIDCopyExport:
		return ActionCopyExport, true
	}
	return 0, false
}

// CustomID returns the control identifier for the action
func (a ButtonAction) CustomID() string {
	switch a {
	case ActionApprove:
		return CustomIDApprove
	case ActionReject:
		return CustomIDReject
	case ActionCopyExport:
		return CustomIDCopyExport
	}
	return ""
}

func (a ButtonAction) String() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionReject:
		return "reject"
	case ActionCopyExport:
		return "copy_export"
	}
	return "unknown"
}

// ButtonPressed is a control activation on a rendered summary
type ButtonPressed struct {
	Action        ButtonAction
	Summary       models.RegistrationSummary
	RequesterID   int64
	RequesterName string
	GuildID       int64
	GuildName     string
}

// WorkflowResult tells the gateway how to respond. Summary is nil when the
// rendered summary must stay as it is.
type WorkflowResult struct {
	Summary   *models.RegistrationSummary
	Ephemeral string
	NoOp      bool
}

// approvalWorkflow implements the ApprovalWorkflow interface
type approvalWorkflow struct {
	uowFactory UnitOfWorkFactory
	directory  MemberDirectory
	notifier   Notifier
	now        func() time.Time
}

// NewApprovalWorkflow creates a new approval workflow
func NewApprovalWorkflow(uowFactory UnitOfWorkFactory, directory MemberDirectory, notifier Notifier) ApprovalWorkflow {
	return &approvalWorkflow{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Handle dispatches a button press. A summary without controls is already
// decided and the press is ignored.
func (w *approvalWorkflow) Handle(ctx context.Context, event ButtonPressed) (*WorkflowResult, error) {
	if !event.Summary.HasControls {
		return &WorkflowResult{NoOp: true}, nil
	}

	switch event.Action {
	case ActionApprove:
		return w.approve(ctx, event)
	case ActionReject:
		return w.reject(ctx, event)
	case ActionCopyExport:
		return w.copyExport(event)
	}
	return nil, fmt.Errorf("unknown button action %d", event.Action)
}

// decisionSubject is the registrant and, for summaries that carry a token, the
// stored pending registration
type decisionSubject struct {
	discordID int64
	user      *UserInfo
	pending   *models.PendingRegistration
}

func (w *approvalWorkflow) identify(ctx context.Context, event ButtonPressed) (*decisionSubject, error) {
	discordID, err := ResolveDiscordID(event.Summary)
	if err != nil {
		return nil, err
	}

	user, err := w.directory.ResolveUser(ctx, event.GuildID, discordID)
	if err != nil || user == nil {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, discordID)
	}

	return &decisionSubject{discordID: discordID, user: user}, nil
}

// loadPending attaches the stored registration referenced by the summary footer
func (w *approvalWorkflow) loadPending(ctx context.Context, uow UnitOfWork, event ButtonPressed, subject *decisionSubject) error {
	token, ok := ResolveRegistrationRef(event.Summary)
	if !ok {
		return nil
	}

	pending, err := uow.PendingRegistrationRepository().GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: failed to load pending registration: %v", ErrStorage, err)
	}
	if pending == nil {
		log.WithFields(log.Fields{
			"guild": event.GuildID,
			"token": token,
		}).Warn("Summary references unknown registration, falling back to summary fields")
		return nil
	}
	if !pending.IsPending() {
		return ErrAlreadyDecided
	}
	subject.pending = pending
	return nil
}

func (w *approvalWorkflow) approve(ctx context.Context, event ButtonPressed) (*WorkflowResult, error) {
	subject, err := w.identify(ctx, event)
	if err != nil {
		return nil, err
	}

	uow := w.uowFactory.CreateForGuild(event.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer uow.Rollback()

	if err := w.loadPending(ctx, uow, event, subject); err != nil {
		return nil, err
	}

	var record models.RegistrationRecord
	if subject.pending != nil && subject.pending.Record != nil {
		record = *subject.pending.Record
		record.DiscordID = subject.discordID
	} else {
		record = ExtractRegistration(event.Summary.Fields, subject.discordID)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}

	participant := record.ToParticipant(event.GuildID, subject.user.Username)
	if err := uow.ParticipantRepository().AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := uow.ParticipantRepository().ApproveParticipant(ctx, subject.discordID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	ref, err := w.closePending(ctx, uow, subject, models.PendingStatusApproved, event.RequesterID)
	if err != nil {
		return nil, err
	}

	decision := &models.ApprovalDecision{
		GuildID:         event.GuildID,
		RegistrationRef: ref,
		DiscordID:       subject.discordID,
		Outcome:         models.DecisionApproved,
		ModeratorID:     event.RequesterID,
		Timestamp:       w.now(),
	}
	if err := uow.ApprovalDecisionRepository().Record(ctx, decision); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	uow.EventBus().Publish(events.RegistrationApprovedEvent{
		Token:       ref,
		GuildID:     event.GuildID,
		DiscordID:   subject.discordID,
		ModeratorID: event.RequesterID,
		Division:    participant.Division,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	logger := log.WithFields(log.Fields{
		"guild":     event.GuildID,
		"user":      subject.discordID,
		"moderator": event.RequesterID,
	})
	logger.Info("Registration approved")

	if err := w.directory.GrantParticipantRole(ctx, event.GuildID, subject.discordID); err != nil {
		logger.WithError(err).Warn("Failed to grant participant role")
	}

	updated := ApplyDecision(event.Summary, models.DecisionApproved, event.RequesterID, event.RequesterName)

	notice := DecisionNotice{GuildName: event.GuildName, Division: participant.Division}
	if err := w.notifier.NotifyApproved(ctx, subject.discordID, notice); err != nil {
		logger.WithError(err).Warn("Could not DM user about approval")
	}

	return &WorkflowResult{
		Summary:   &updated,
		Ephemeral: fmt.Sprintf("✅ Registration approved! <@%d> has been added to the tournament.", subject.discordID),
	}, nil
}

func (w *approvalWorkflow) reject(ctx context.Context, event ButtonPressed) (*WorkflowResult, error) {
	subject, err := w.identify(ctx, event)
	if err != nil {
		return nil, err
	}

	uow := w.uowFactory.CreateForGuild(event.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer uow.Rollback()

	if err := w.loadPending(ctx, uow, event, subject); err != nil {
		return nil, err
	}

	ref, err := w.closePending(ctx, uow, subject, models.PendingStatusRejected, event.RequesterID)
	if err != nil {
		return nil, err
	}

	decision := &models.ApprovalDecision{
		GuildID:         event.GuildID,
		RegistrationRef: ref,
		DiscordID:       subject.discordID,
		Outcome:         models.DecisionRejected,
		ModeratorID:     event.RequesterID,
		Timestamp:       w.now(),
	}
	if err := uow.ApprovalDecisionRepository().Record(ctx, decision); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	uow.EventBus().Publish(events.RegistrationRejectedEvent{
		Token:       ref,
		GuildID:     event.GuildID,
		DiscordID:   subject.discordID,
		ModeratorID: event.RequesterID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	logger := log.WithFields(log.Fields{
		"guild":     event.GuildID,
		"user":      subject.discordID,
		"moderator": event.RequesterID,
	})
	logger.Info("Registration rejected")

	updated := ApplyDecision(event.Summary, models.DecisionRejected, event.RequesterID, event.RequesterName)

	if err := w.notifier.NotifyRejected(ctx, subject.discordID, DecisionNotice{GuildName: event.GuildName}); err != nil {
		logger.WithError(err).Warn("Could not DM user about rejection")
	}

	return &WorkflowResult{
		Summary:   &updated,
		Ephemeral: fmt.Sprintf("❌ Registration rejected. <@%d> has been notified.", subject.discordID),
	}, nil
}

// closePending moves the stored registration, if any, to its terminal status.
// Losing the race to another moderator surfaces as ErrAlreadyDecided.
func (w *approvalWorkflow) closePending(ctx context.Context, uow UnitOfWork, subject *decisionSubject, status models.PendingStatus, moderatorID int64) (*uuid.UUID, error) {
	if subject.pending == nil {
		return nil, nil
	}

	token := subject.pending.Token
	updated, err := uow.PendingRegistrationRepository().MarkDecided(ctx, token, status, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !updated {
		return nil, ErrAlreadyDecided
	}
	return &token, nil
}

func (w *approvalWorkflow) copyExport(event ButtonPressed) (*WorkflowResult, error) {
	for _, field := range event.Summary.Fields {
		if !strings.Contains(strings.ToLower(field.Label), "export code") {
			continue
		}
		code := strings.TrimSpace(strings.ReplaceAll(field.Value, "`", ""))
		if code == "" {
			break
		}
		return &WorkflowResult{
			Ephemeral: fmt.Sprintf("📋 **Export Code:**\n```\n%s\n```", code),
		}, nil
	}
	return nil, fmt.Errorf("%w: export code", ErrFieldNotFound)
}
