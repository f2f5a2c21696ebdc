package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gincana/placar/internal/domain"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, &Session{ID: "s1", Username: "ana", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Username)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	now = now.Add(time.Hour)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "expired session")
	assert.Equal(t, 0, store.Len(), "expired session is pruned")

	require.NoError(t, store.Put(ctx, &Session{ID: "s2", Username: "bia", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Delete(ctx, "s2"))
	assert.Equal(t, 0, store.Len())
	_, err = store.Get(ctx, "s2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStore_PutPrunesExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Put(ctx, &Session{ID: fmt.Sprintf("old-%d", i), Username: "ana", ExpiresAt: now}))
	}
	assert.Equal(t, 0, store.Len(), "expired sessions are not kept")

	require.NoError(t, store.Put(ctx, &Session{ID: "a", Username: "ana", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Put(ctx, &Session{ID: "b", Username: "bia", ExpiresAt: now.Add(2 * time.Hour)}))
	require.Equal(t, 2, store.Len())

	now = now.Add(90 * time.Minute)
	require.NoError(t, store.Put(ctx, &Session{ID: "c", Username: "ana", ExpiresAt: now.Add(time.Hour)}))
	assert.Equal(t, 2, store.Len(), "session a is swept when c is stored")

	_, err := store.Get(ctx, "b")
	assert.NoError(t, err)
}
