package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/kv/file"
)

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := file.New(filepath.Join(dir, "data"))
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "expenses", `[{"id":"a"}]`))
	require.NoError(t, s.Set(ctx, "expenses", `[]`))

	got, ok, err := s.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, got)

	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "expenses.json", entries[0].Name())
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := file.New(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "sync-destination-url", "https://example.com/hook"))

	reopened, err := file.New(dir)
	require.NoError(t, err)

	got, ok, err := reopened.Get(ctx, "sync-destination-url")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/hook", got)
}

func TestStore_InvalidKey(t *testing.T) {
	ctx := context.Background()

	s, err := file.New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, s.Set(ctx, key, "v"), file.ErrInvalidKey, key)

		_, _, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, file.ErrInvalidKey, key)
	}
}
