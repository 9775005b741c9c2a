// Package redis implements storage.Store on Redis strings.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/pkg/storage"
)

// Store keeps each value under namespace + key.
type Store struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace prefixes every key, e.g. "storefront:".
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

// WithTTL expires idle state after d. Zero keeps values forever.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// New wraps a connected client.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr string, opts ...Option) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return New(client, opts...), nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, nil
}

// Set stores value under key, refreshing the TTL.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.namespace+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.namespace+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
