package storage

import "context"

// Prefixed namespaces every key of an underlying store. It lets several
// profiles or applications share one Redis or Postgres backend.
type Prefixed struct {
	kv     KV
	prefix string
}

// WithPrefix wraps kv so that key k is stored as prefix+k.
// An empty prefix returns kv unchanged.
func WithPrefix(kv KV, prefix string) KV {
	if prefix == "" {
		return kv
	}
	return &Prefixed{kv: kv, prefix: prefix}
}

// Get implements KV.
func (p *Prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return p.kv.Get(ctx, p.prefix+key)
}

// Set implements KV.
func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.kv.Set(ctx, p.prefix+key, value)
}

// Remove implements KV.
func (p *Prefixed) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.kv.Remove(ctx, p.prefix+key)
}
