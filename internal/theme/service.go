package theme

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/events"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// StorageKey holds the persisted theme mode.
const StorageKey = "theme"

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts light or dark in any case.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"mode": "must be one of light dark"})
}

type Service interface {
	Mode() Mode
	Set(ctx context.Context, mode Mode) (Mode, error)
	Toggle(ctx context.Context) Mode
}

type Deps struct {
	Store   kvstore.Store
	Logger  *logger.Logger
	Metrics *metrics.Storefront
	Events  events.Emitter
}

type service struct {
	mu      sync.RWMutex
	mode    Mode
	store   kvstore.Store
	logg    *logger.Logger
	metrics *metrics.Storefront
	events  events.Emitter
}

// NewService restores the saved mode; anything unreadable means light.
func NewService(ctx context.Context, deps Deps) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("theme store required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.Events == nil {
		deps.Events = events.Discard{}
	}

	mode := Light
	if stored, ok := kvstore.LoadJSON[string](ctx, deps.Store, StorageKey, deps.Logger); ok {
		if parsed, err := ParseMode(stored); err == nil {
			mode = parsed
		}
	}

	return &service{
		mode:    mode,
		store:   deps.Store,
		logg:    deps.Logger,
		metrics: deps.Metrics,
		events:  deps.Events,
	}, nil
}

func (s *service) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *service) Set(ctx context.Context, mode Mode) (Mode, error) {
	parsed, err := ParseMode(string(mode))
	if err != nil {
		return s.Mode(), err
	}
	s.apply(ctx, func(Mode) Mode { return parsed })
	return parsed, nil
}

func (s *service) Toggle(ctx context.Context) Mode {
	return s.apply(ctx, func(current Mode) Mode {
		if current == Dark {
			return Light
		}
		return Dark
	})
}

func (s *service) apply(ctx context.Context, next func(Mode) Mode) Mode {
	s.mu.Lock()
	s.mode = next(s.mode)
	mode := s.mode
	if err := kvstore.SaveJSON(ctx, s.store, StorageKey, string(mode)); err != nil {
		s.metrics.IncWriteFailure(StorageKey)
		s.logg.Warn(s.logg.WithField(ctx, "key", StorageKey), fmt.Sprintf("persisting theme: %v", err))
	}
	s.mu.Unlock()

	s.events.Emit(ctx, events.TypeThemeUpdated, map[string]string{"mode": string(mode)})
	return mode
}
