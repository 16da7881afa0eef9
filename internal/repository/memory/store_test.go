package memory

import (
	"context"
	"testing"
	"time"

	"bettercorq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Records(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Get(ctx, domain.KeyPickedEvents)
	require.ErrorIs(t, err, domain.ErrNotFound)

	value := []byte(`["a"]`)
	require.NoError(t, s.Put(ctx, domain.KeyPickedEvents, value))
	value[2] = 'b'

	got, err := s.Get(ctx, domain.KeyPickedEvents)
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got))

	require.NoError(t, s.Delete(ctx, domain.KeyPickedEvents))
	_, err = s.Get(ctx, domain.KeyPickedEvents)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Events(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.ReplaceAll(ctx, []domain.CandidateEvent{
		{Name: "a", Start: start, End: start.Add(time.Hour)},
		{Name: "b", Start: start, End: start.Add(time.Hour)},
	}))
	got, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
}
