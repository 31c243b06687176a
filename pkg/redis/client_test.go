package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestStateLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock, stateTTL: time.Hour}

	if err := client.SetState(ctx, "device:local:cartItems", `[{"id":1}]`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := mock.data["sf:state:device:local:cartItems"]; !ok {
		t.Fatalf("expected namespaced key, got %v", mock.data)
	}
	if mock.ttl["sf:state:device:local:cartItems"] != time.Hour {
		t.Fatalf("expected state ttl to be applied")
	}

	value, found, err := client.GetState(ctx, "device:local:cartItems")
	if err != nil || !found {
		t.Fatalf("get failed: found=%v err=%v", found, err)
	}
	if value != `[{"id":1}]` {
		t.Fatalf("expected stored value, got %q", value)
	}

	if err := client.DeleteState(ctx, "device:local:cartItems"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found, err := client.GetState(ctx, "device:local:cartItems"); err != nil || found {
		t.Fatalf("expected absent after delete, found=%v err=%v", found, err)
	}
}

func TestGetStateWrapsErrors(t *testing.T) {
	boom := errors.New("i/o timeout")
	client := &Client{store: &mockCmdable{data: map[string]string{}, ttl: map[string]time.Duration{}, err: boom}}
	if _, _, err := client.GetState(context.Background(), "theme"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestStateKey(t *testing.T) {
	if got := stateKey("theme"); got != "sf:state:theme" {
		t.Fatalf("unexpected state key %s", got)
	}
	if got := stateKey("  "); got != "sf:state" {
		t.Fatalf("blank keys should be skipped, got %s", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	var client *Client
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from nil client ping")
	}
	if err := client.SetState(context.Background(), "theme", "dark"); err == nil {
		t.Fatalf("expected error from nil client set")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("closing nil client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}
	if _, err := optionsFromConfig(config.RedisConfig{Address: "cache:6379", StateTTL: -time.Second}); err == nil {
		t.Fatalf("expected error for negative ttl")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db from url, got %d", opts.DB)
	}
	if opts.PoolSize != 7 {
		t.Fatalf("expected pool size from config, got %d", opts.PoolSize)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 3 {
		t.Fatalf("unexpected address options %+v", opts)
	}
}

type mockCmdable struct {
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.err)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
