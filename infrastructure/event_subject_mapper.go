package infrastructure

import (
	"fmt"

	"github.com/haliguyr1-cmyk/RRTournament/events"
)

const (
	SubjectRegistrationSubmitted = "registrations.submitted"
	SubjectRegistrationApproved  = "registrations.approved"
	SubjectRegistrationRejected  = "registrations.rejected"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeRegistrationSubmitted:
		return SubjectRegistrationSubmitted
	case events.EventTypeRegistrationApproved:
		return SubjectRegistrationApproved
	case events.EventTypeRegistrationRejected:
		return SubjectRegistrationRejected
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case SubjectRegistrationSubmitted:
		return events.EventTypeRegistrationSubmitted
	case SubjectRegistrationApproved:
		return events.EventTypeRegistrationApproved
	case SubjectRegistrationRejected:
		return events.EventTypeRegistrationRejected
	default:
		return events.EventType(subject)
	}
}

// GetStreamSubjects returns the subject filter for the registrations stream
func (m *EventSubjectMapper) GetStreamSubjects() []string {
	return []string{"registrations.*"}
}
