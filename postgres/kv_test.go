package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/workflow/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *postgres.PGStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := postgres.New(pool)
	require.NoError(t, s.CreateSchema(ctx))
	return s
}

func TestPGStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	key := "test-" + t.Name()
	t.Cleanup(func() { s.Delete(ctx, key) })

	v, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, key, []byte(`[{"id":"a","type":"start"}]`)))
	v, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","type":"start"}]`, string(v))

	require.NoError(t, s.Set(ctx, key, []byte(`[]`)))
	v, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v))

	require.NoError(t, s.Delete(ctx, key))
	v, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, v)
}
