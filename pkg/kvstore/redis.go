package kvstore

import (
	"context"
	"errors"
)

// RedisClient is the subset of pkg/redis the store relies on.
type RedisClient interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	SetState(ctx context.Context, key, value string) error
	DeleteState(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Redis adapts the state client to Store. Keys land under sf:state:<key>.
type Redis struct {
	client RedisClient
}

func NewRedis(client RedisClient) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, found, err := r.client.GetState(ctx, key)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.SetState(ctx, key, value)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.DeleteState(ctx, key)
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
