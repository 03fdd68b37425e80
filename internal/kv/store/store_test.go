package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/kv/store"
)

// Runs against a live postgres when TALLY_TEST_DATABASE_URL is set.
func TestStore_GetSet(t *testing.T) {
	connStr := os.Getenv("TALLY_TEST_DATABASE_URL")
	if connStr == "" || testing.Short() {
		t.Skip("skipping integration test: TALLY_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	db, err := database.New(ctx, connStr)
	require.NoError(t, err)

	defer db.Close()

	s := store.New(db)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))

	key := "test-" + t.Name()

	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM kv_entries WHERE name = $1", key)
	})

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, key, `[{"id":"a"}]`))
	require.NoError(t, s.Set(ctx, key, `[]`))

	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, got)
}
