package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/haliguyr1-cmyk/RRTournament/events"
	log "github.com/sirupsen/logrus"
)

// EventForwarder republishes committed registration events to the message bus
type EventForwarder struct {
	publisher MessagePublisher
	mapper    *EventSubjectMapper
}

// NewEventForwarder creates a forwarder writing to the given publisher
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		mapper:    NewEventSubjectMapper(),
	}
}

// Register subscribes the forwarder to every registration event on the bus
func (f *EventForwarder) Register(bus *events.Bus) {
	for _, eventType := range events.RegistrationEventTypes {
		bus.Subscribe(eventType, f.Forward)
	}
}

// Forward serializes the event as JSON and publishes it. Failures are logged;
// the database remains the source of truth.
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) {
	subject := f.mapper.MapEventToSubject(event)

	data, err := json.Marshal(event)
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to marshal event")
		return
	}

	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"subject":   subject,
			"error":     err,
		}).Error("Failed to forward event to message bus")
	}
}
