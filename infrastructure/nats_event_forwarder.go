package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"guildbot/events"
)

// EventEnvelope wraps a forwarded event payload.
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
}

// EventForwarder copies in-process bus events to a message publisher.
type EventForwarder struct {
	publisher MessagePublisher
	now       func() time.Time
	timeout   time.Duration
}

// NewEventForwarder creates a forwarder that publishes through publisher
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		now:       time.Now,
		timeout:   5 * time.Second,
	}
}

// Attach subscribes the forwarder to every forwarded event type on bus.
func (f *EventForwarder) Attach(bus *events.Bus) {
	for _, eventType := range ForwardedEventTypes() {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) {
			if err := f.Forward(ctx, event); err != nil {
				log.WithFields(log.Fields{
					"eventType": event.Type(),
					"error":     err,
				}).Warn("Failed to forward event to NATS")
			}
		})
	}
}

// Forward publishes one event wrapped in an envelope.
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:   uuid.NewString(),
		EventType: string(event.Type()),
		Timestamp: f.now().UTC(),
		Source:    "guildbot",
		Payload:   payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	subject := MapEventToSubject(event)
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
	return nil
}
