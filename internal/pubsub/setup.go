package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/Elias-Front-end/management-system/internal/config"
)

// EmulatorOptions returns the client options for the local emulator, nil when none is configured.
func EmulatorOptions(cfg *config.Config) []option.ClientOption {
	if cfg.PubSubEmulatorHost == "" {
		return nil
	}
	return []option.ClientOption{
		option.WithEndpoint(cfg.PubSubEmulatorHost),
		option.WithoutAuthentication(),
	}
}

// Setup ensures the events topic exists together with a pull subscription
// named "<topic>-sub" for downstream consumers. Existing resources are kept.
func Setup(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.PubSubEventsTopic == "" {
		return fmt.Errorf("PUBSUB_EVENTS_TOPIC is not set")
	}
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID, EmulatorOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close pubsub client")
		}
	}()

	topic := client.Topic(cfg.PubSubEventsTopic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("checking topic %s: %w", topic.ID(), err)
	}
	if !exists {
		if topic, err = client.CreateTopic(ctx, cfg.PubSubEventsTopic); err != nil {
			return fmt.Errorf("creating topic %s: %w", cfg.PubSubEventsTopic, err)
		}
		logger.Info().Str("topic", topic.ID()).Msg("Created topic")
	}

	subID := cfg.PubSubEventsTopic + "-sub"
	sub := client.Subscription(subID)
	if exists, err = sub.Exists(ctx); err != nil {
		return fmt.Errorf("checking subscription %s: %w", subID, err)
	}
	if exists {
		logger.Info().Str("subscription", subID).Msg("Subscription already exists")
		return nil
	}
	_, err = client.CreateSubscription(ctx, subID, pubsub.SubscriptionConfig{
		Topic:             topic,
		AckDeadline:       20 * time.Second,
		RetentionDuration: 7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("creating subscription %s: %w", subID, err)
	}
	logger.Info().Str("subscription", subID).Msg("Created subscription")
	return nil
}
