package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Domain event types.
const (
	EventEnrollmentCreated = "enrollment.created"
	EventResourcePublished = "resource.published"
)

// Envelope is the JSON body of every domain event.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Emitter publishes domain events. Delivery is best effort: failures are
// logged and never fail the request that produced the event.
type Emitter interface {
	Emit(ctx context.Context, eventType string, data any)
}

type topicEmitter struct {
	publisher Publisher
	topic     string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEmitter publishes events to topic through publisher.
func NewEmitter(publisher Publisher, topic string, logger zerolog.Logger) Emitter {
	return &topicEmitter{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("component", "events").Logger(),
		now:       time.Now,
	}
}

func (e *topicEmitter) Emit(ctx context.Context, eventType string, data any) {
	payload, err := json.Marshal(Envelope{Type: eventType, OccurredAt: e.now().UTC(), Data: data})
	if err != nil {
		e.logger.Error().Err(err).Str("event_type", eventType).Msg("Failed to encode event")
		return
	}
	id, err := e.publisher.Publish(ctx, e.topic, payload, map[string]string{"event_type": eventType})
	if err != nil {
		e.logger.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish event")
		return
	}
	e.logger.Debug().Str("event_type", eventType).Str("message_id", id).Msg("Event published")
}

// NoopEmitter drops every event. Used when no topic is configured.
type NoopEmitter struct{}

func (NoopEmitter) Emit(context.Context, string, any) {}
