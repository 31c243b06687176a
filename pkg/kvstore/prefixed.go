package kvstore

import "context"

type prefixed struct {
	inner  Store
	prefix string
}

// Prefixed scopes every key of inner under prefix.
func Prefixed(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &prefixed{inner: inner, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Ping(ctx context.Context) error {
	return p.inner.Ping(ctx)
}

// DevicePrefix is the namespace for one calling device.
func DevicePrefix(deviceID string) string {
	return "device:" + deviceID + ":"
}
