package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const defaultPublishTimeout = 5 * time.Second

var errProjectIDRequired = errors.New("gcp project id is required")

type publisher interface {
	Publish(context.Context, *pubsub.Message) publishResult
	Stop()
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// PubSub publishes envelopes to a single Google Pub/Sub topic.
type PubSub struct {
	client  *pubsub.Client
	pub     publisher
	timeout time.Duration
}

// NewPubSub connects to the configured project and topic.
func NewPubSub(ctx context.Context, cfg config.PubSubConfig, logg *logger.Logger) (*PubSub, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errProjectIDRequired
	}
	topic := topicResourceName(projectID, cfg.EventsTopic)
	if topic == "" {
		return nil, errors.New("pubsub events topic is required")
	}

	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topic", topic), "pubsub publisher initialized")
	}

	return &PubSub{
		client:  client,
		pub:     &gcpPublisher{Publisher: client.Publisher(topic)},
		timeout: defaultPublishTimeout,
	}, nil
}

func (p *PubSub) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_id":    env.EventID,
			"event_type":  env.Type,
			"device_id":   env.DeviceID,
			"occurred_at": env.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	result := p.pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", env.Type, err)
	}
	return nil
}

// Close flushes pending messages and releases the client.
func (p *PubSub) Close() error {
	if p == nil {
		return nil
	}
	if p.pub != nil {
		p.pub.Stop()
	}
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func topicResourceName(projectID, name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	return fmt.Sprintf("projects/%s/topics/%s", projectID, n)
}

type gcpPublisher struct {
	*pubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}

// Open returns the Pub/Sub publisher when configured, otherwise Noop.
func Open(ctx context.Context, cfg config.PubSubConfig, logg *logger.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		return Noop{}, nil
	}
	return NewPubSub(ctx, cfg, logg)
}
