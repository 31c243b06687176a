// Package events publishes storefront change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeCartUpdated    = "cart.updated"
	TypeCatalogUpdated = "catalog.updated"
	TypeClientsUpdated = "clients.updated"
	TypeThemeUpdated   = "theme.updated"
)

const envelopeVersion = 1

// Envelope is the JSON payload of every published message.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	DeviceID   string          `json:"deviceId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope stamps data with a fresh event id.
func NewEnvelope(eventType, deviceID string, data any, now time.Time) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		Version:    envelopeVersion,
		EventID:    uuid.NewString(),
		Type:       eventType,
		DeviceID:   deviceID,
		OccurredAt: now.UTC(),
		Data:       raw,
	}, nil
}

// Publisher delivers envelopes to a broker.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// Noop drops every envelope.
type Noop struct{}

func (Noop) Publish(context.Context, Envelope) error { return nil }
func (Noop) Close() error                            { return nil }
