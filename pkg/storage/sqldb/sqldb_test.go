package sqldb

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/pkg/storage"
)

func exercise(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "templo-dos-magos-cart")
	require.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	require.NoError(t, s.Set(ctx, "templo-dos-magos-cart", []byte(`[{"id":1,"quantity":2}]`)))
	got, err := s.Get(ctx, "templo-dos-magos-cart")
	require.NoError(t, err)
	require.Equal(t, `[{"id":1,"quantity":2}]`, string(got))

	require.NoError(t, s.Set(ctx, "templo-dos-magos-cart", []byte(`[]`)))
	got, err = s.Get(ctx, "templo-dos-magos-cart")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "templo-dos-magos-cart"))
	require.NoError(t, s.Delete(ctx, "templo-dos-magos-cart"))
	_, err = s.Get(ctx, "templo-dos-magos-cart")
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestSQLiteStore(t *testing.T) {
	s, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	exercise(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	s, err := Open(context.Background(), DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	exercise(t, s)
}
