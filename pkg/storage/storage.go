// Package storage defines the durable key/value store that holds the
// serialised cart and auth session between runs.
package storage

import (
	"context"
	"errors"
)

// Store persists opaque values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ErrNotFound indicates the requested key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// Prefixed scopes every key of s under prefix + ":".
func Prefixed(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return prefixed{store: s, prefix: prefix + ":"}
}

type prefixed struct {
	store  Store
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.store.Set(ctx, p.prefix+key, value)
}

func (p prefixed) Delete(ctx context.Context, key string) error {
	return p.store.Delete(ctx, p.prefix+key)
}
