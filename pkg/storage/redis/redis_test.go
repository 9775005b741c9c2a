package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/storage"
)

func setupMiniredis(t *testing.T, opts ...Option) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	s := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), opts...)
	t.Cleanup(func() { s.Close() })
	return mr, s
}

func exerciseStore(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "auth")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	require.NoError(t, s.Set(ctx, "auth", []byte(`{"token":"t"}`)))
	got, err := s.Get(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, `{"token":"t"}`, string(got))

	require.NoError(t, s.Delete(ctx, "auth"))
	_, err = s.Get(ctx, "auth")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
	require.NoError(t, s.Delete(ctx, "auth"))
}

func TestStoreRoundTrip(t *testing.T) {
	_, s := setupMiniredis(t)
	exerciseStore(t, s)
}

func TestStoreNamespaceAndTTL(t *testing.T) {
	mr, s := setupMiniredis(t, WithNamespace("storefront:"), WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "sid:cart", []byte(`[]`)))
	assert.True(t, mr.Exists("storefront:sid:cart"))
	assert.False(t, mr.Exists("sid:cart"))
	assert.Equal(t, time.Minute, mr.TTL("storefront:sid:cart"))

	v, err := mr.Get("storefront:sid:cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	mr.FastForward(time.Minute + time.Second)
	_, err = s.Get(ctx, "sid:cart")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
}

func TestStoreWithoutTTLKeepsValues(t *testing.T) {
	mr, s := setupMiniredis(t)
	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestStoreConnectionFailure(t *testing.T) {
	mr, s := setupMiniredis(t)
	mr.Close()
	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrNotFound))
}

func TestDialUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = Dial(ctx, addr)
	assert.Error(t, err)
}

func TestStoreAgainstServer(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := Dial(context.Background(), addr, WithNamespace("storefront-test:"+uuid.NewString()+":"), WithTTL(time.Minute))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}
