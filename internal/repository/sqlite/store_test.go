package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bettercorq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "bettercorq.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore_Records(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, domain.KeyManualAvailability)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Put(ctx, domain.KeyManualAvailability, []byte(`[{"day":"2025-11-10","from":"08:00","to":"09:00"}]`)))
	require.NoError(t, store.Put(ctx, domain.KeyExtractedFreeTime, []byte(`{"Mon":[]}`)))
	require.NoError(t, store.Put(ctx, domain.KeyManualAvailability, []byte(`[]`)))

	got, err := store.Get(ctx, domain.KeyManualAvailability)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, store.Delete(ctx, domain.KeyManualAvailability, domain.KeyExtractedFreeTime, "missing"))
	_, err = store.Get(ctx, domain.KeyExtractedFreeTime)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, store.Delete(ctx))
}

func TestStore_Events(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	loc := time.FixedZone("EST", -5*60*60)
	start := time.Date(2025, 11, 10, 19, 0, 0, 0, loc)
	catalog := []domain.CandidateEvent{
		{Name: "Movie night", Start: start, End: start.Add(2 * time.Hour), Location: "Hall", Organization: "Film Club", Source: "events.yaml"},
		{Name: "Chess club", Start: start.Add(-10 * time.Hour), End: start.Add(-9 * time.Hour), Location: "Room 1", Organization: "Chess Society"},
	}
	require.NoError(t, store.ReplaceAll(ctx, catalog))
	require.NoError(t, store.ReplaceAll(ctx, catalog))

	require.NoError(t, store.Close())
	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Movie night", got[0].Name)
	assert.True(t, got[0].Start.Equal(catalog[0].Start))
	assert.True(t, got[1].End.Equal(catalog[1].End))
	assert.Equal(t, "Room 1", got[1].Location)
	assert.Equal(t, "events.yaml", got[0].Source)
}

func TestStore_ReplaceAllRollsBackOnDuplicate(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.ReplaceAll(ctx, []domain.CandidateEvent{{Name: "a", Start: start, End: start.Add(time.Hour)}}))
	err := store.ReplaceAll(ctx, []domain.CandidateEvent{
		{Name: "b", Start: start, End: start.Add(time.Hour)},
		{Name: "b", Start: start, End: start.Add(time.Hour)},
	})
	require.Error(t, err)

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}
