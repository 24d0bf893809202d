package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwellingly/dwellingly-cli/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "cache.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmptyCache(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSaveLoadKeepsOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	fetched := time.UnixMilli(1_700_000_000_000)

	props := []api.Property{
		{ID: 9, Name: "Zeta", PropertyManagerName: []string{"Ana"}, TenantIDs: []int64{1}},
		{ID: 2, Name: "Beta", Archived: true, CreatedAt: api.Timestamp{Raw: "2020-10-06 17:31:42"}},
	}
	require.NoError(t, s.Save(ctx, "http://api.test", props, fetched))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, fetched.Equal(snap.FetchedAt))
	assert.Equal(t, "http://api.test", snap.Source)
	require.Len(t, snap.Properties, 2)
	assert.Equal(t, int64(9), snap.Properties[0].ID)
	assert.Equal(t, []string{"Ana"}, snap.Properties[0].PropertyManagerName)
	assert.True(t, snap.Properties[1].Archived)
	assert.Equal(t, 2020, snap.Properties[1].CreatedAt.Time.Year())
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", []api.Property{{ID: 1}, {ID: 2}}, time.Now()))
	require.NoError(t, s.Save(ctx, "b", []api.Property{{ID: 3}}, time.Now()))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Properties, 1)
	assert.Equal(t, int64(3), snap.Properties[0].ID)
	assert.Equal(t, "b", snap.Source)
}
