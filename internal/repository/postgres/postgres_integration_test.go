package postgres

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gincana/placar/internal/domain"
)

// setupStore starts a PostgreSQL container, applies migrations and seeds the default teams
func setupStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gincana_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := Connect(ctx, connStr, 10, 2)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, pool))

	store := NewStore(pool)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.EnsureTeams(ctx, domain.DefaultTeams))
	return store
}

func TestStore_Integration(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	t.Run("EnsureTeams is idempotent", func(t *testing.T) {
		require.NoError(t, store.EnsureTeams(ctx, domain.DefaultTeams))

		teams, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, teams, 2)
		assert.Equal(t, "Boys", teams[0].Name)
		assert.Equal(t, "Girls", teams[1].Name)
	})

	t.Run("Upsert replaces role and password", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, &domain.User{Username: "ana", Password: "h1", Role: domain.RoleMember}))
		require.NoError(t, store.Upsert(ctx, &domain.User{Username: "ana", Password: "h2", Role: domain.RoleLeader}))

		user, err := store.GetByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, "h2", user.Password)
		assert.Equal(t, domain.RoleLeader, user.Role)

		_, err = store.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("RecordEvent increments points and appends", func(t *testing.T) {
		team, err := store.RecordEvent(ctx, &domain.Event{
			ID:     uuid.NewString(),
			Name:   "Relay",
			Points: 10,
			Team:   "Boys",
			Date:   domain.Today(time.Now()),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), team.Points)

		events, err := store.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Relay", events[0].Name)
	})

	t.Run("RecordContribution increments value and appends", func(t *testing.T) {
		team, err := store.RecordContribution(ctx, &domain.Contribution{
			ID:    uuid.NewString(),
			Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Name:  "Bake sale",
			Value: decimal.RequireFromString("50.00"),
			Team:  "Girls",
		})
		require.NoError(t, err)
		assert.True(t, team.Value.Equal(decimal.NewFromInt(50)))

		contributions, err := store.ListContributions(ctx)
		require.NoError(t, err)
		require.Len(t, contributions, 1)
		assert.Equal(t, "2024-01-01", contributions[0].Date.Format(domain.DateLayout))
	})

	t.Run("Unknown team rolls back the log entry", func(t *testing.T) {
		_, err := store.RecordEvent(ctx, &domain.Event{
			ID:     uuid.NewString(),
			Name:   "Typo",
			Points: 5,
			Team:   "Meninos",
			Date:   domain.Today(time.Now()),
		})
		assert.ErrorIs(t, err, domain.ErrTeamNotFound)

		events, err := store.ListEvents(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("Points overflow is a validation error", func(t *testing.T) {
		_, err := store.Increment(ctx, "Boys", math.MaxInt64, decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NotErrorIs(t, err, domain.ErrStorageUnavailable)

		teams, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), teams[0].Points)
	})

	t.Run("Concurrent increments are not lost", func(t *testing.T) {
		before, err := store.GetAll(ctx)
		require.NoError(t, err)

		const workers = 40
		var wg sync.WaitGroup
		for i := 1; i <= workers; i++ {
			wg.Add(1)
			go func(delta int64) {
				defer wg.Done()
				_, err := store.Increment(ctx, "Girls", delta, decimal.NewFromFloat(0.25))
				assert.NoError(t, err)
			}(int64(i))
		}
		wg.Wait()

		after, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, before[1].Points+workers*(workers+1)/2, after[1].Points)
		assert.True(t, after[1].Value.Equal(before[1].Value.Add(decimal.NewFromInt(10))))
	})
}
