package events

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// Emitter is what domain services call after a committed change.
type Emitter interface {
	Emit(ctx context.Context, eventType string, data any)
}

type deviceEmitter struct {
	pub      Publisher
	deviceID string
	logg     *logger.Logger
	metrics  *metrics.Storefront
	now      func() time.Time
}

// ForDevice binds pub to one device namespace. Publish failures are logged
// and counted; they never fail the caller.
func ForDevice(pub Publisher, deviceID string, logg *logger.Logger, m *metrics.Storefront) Emitter {
	if pub == nil {
		pub = Noop{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &deviceEmitter{pub: pub, deviceID: deviceID, logg: logg, metrics: m, now: time.Now}
}

func (e *deviceEmitter) Emit(ctx context.Context, eventType string, data any) {
	if _, noop := e.pub.(Noop); noop {
		return
	}
	env, err := NewEnvelope(eventType, e.deviceID, data, e.now())
	if err == nil {
		err = e.pub.Publish(ctx, env)
	}
	e.metrics.IncEvent(eventType, err)
	if err != nil {
		e.logg.Error(e.logg.WithField(ctx, "event_type", eventType), "publishing change event", err)
	}
}

// Discard is an Emitter that does nothing.
type Discard struct{}

func (Discard) Emit(context.Context, string, any) {}
