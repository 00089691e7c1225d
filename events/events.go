package events

import (
	"github.com/google/uuid"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRegistrationSubmitted EventType = "registration_submitted"
	EventTypeRegistrationApproved  EventType = "registration_approved"
	EventTypeRegistrationRejected  EventType = "registration_rejected"
)

// RegistrationEventTypes lists every registration lifecycle event
var RegistrationEventTypes = []EventType{
	EventTypeRegistrationSubmitted,
	EventTypeRegistrationApproved,
	EventTypeRegistrationRejected,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RegistrationSubmittedEvent is emitted when a registration enters review
type RegistrationSubmittedEvent struct {
	Token     uuid.UUID `json:"token"`
	GuildID   int64     `json:"guildId"`
	DiscordID int64     `json:"discordId"`
	Source    string    `json:"source"`
	Division  string    `json:"division"`
}

func (e RegistrationSubmittedEvent) Type() EventType {
	return EventTypeRegistrationSubmitted
}

// RegistrationApprovedEvent is emitted after an approval is committed.
// Token is nil for summaries without a stored pending registration.
type RegistrationApprovedEvent struct {
	Token       *uuid.UUID `json:"token,omitempty"`
	GuildID     int64      `json:"guildId"`
	DiscordID   int64      `json:"discordId"`
	ModeratorID int64      `json:"moderatorId"`
	Division    string     `json:"division"`
}

func (e RegistrationApprovedEvent) Type() EventType {
	return EventTypeRegistrationApproved
}

// RegistrationRejectedEvent is emitted after a rejection is committed
type RegistrationRejectedEvent struct {
	Token       *uuid.UUID `json:"token,omitempty"`
	GuildID     int64      `json:"guildId"`
	DiscordID   int64      `json:"discordId"`
	ModeratorID int64      `json:"moderatorId"`
}

func (e RegistrationRejectedEvent) Type() EventType {
	return EventTypeRegistrationRejected
}
