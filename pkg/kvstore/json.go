package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// LoadJSON decodes the value under key into T. Missing keys, read failures and
// malformed payloads all yield the zero value and false; the latter two are
// logged at warn.
func LoadJSON[T any](ctx context.Context, store Store, key string, logg *logger.Logger) (T, bool) {
	var out T
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && logg != nil {
			logg.Warn(logg.WithField(ctx, "key", key), fmt.Sprintf("reading persisted value: %v", err))
		}
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "key", key), fmt.Sprintf("discarding malformed persisted value: %v", err))
		}
		var zero T
		return zero, false
	}
	return out, true
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, store Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
