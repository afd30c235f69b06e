//go:build integration

package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/auth"
	"github.com/user/agency-go/dashboard"
	"github.com/user/agency-go/db"
)

// startPostgres runs a throwaway PostgreSQL, applies the embedded migrations
// and returns a pool connected to it.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("agency"),
		postgres.WithUsername("agency"),
		postgres.WithPassword("agency"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(connStr))
	// Applying twice is a no-op.
	require.NoError(t, db.RunMigrations(connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresStoreAgainstRealDatabase(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	store := auth.NewPostgresStore(pool, 5*time.Second)
	counter := dashboard.NewPostgresCounter(pool, 5*time.Second)

	count, err := counter.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	created, err := store.Create(ctx, "alice", "hash-1", nil)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = store.Create(ctx, "alice", "hash-2", nil)
	assert.True(t, apperror.IsDuplicateUsername(err))

	found, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", found.PasswordHash)
	assert.Nil(t, found.Email)

	_, err = store.FindByUsername(ctx, "bob")
	assert.True(t, apperror.IsNotFound(err))

	email, name, address := "alice@example.com", "Alice", "1 Main St"
	updated, err := store.UpdateProfile(ctx, "alice", auth.Profile{Email: &email, Name: &name, Address: &address})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)
	assert.Equal(t, "hash-1", updated.PasswordHash)

	_, err = store.UpdateProfile(ctx, "bob", auth.Profile{Email: &email, Name: &name, Address: &address})
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, store.UpdatePasswordHash(ctx, "alice", "hash-3"))
	found, err = store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-3", found.PasswordHash)

	assert.True(t, apperror.IsNotFound(store.UpdatePasswordHash(ctx, "bob", "hash")))

	count, err = counter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostgresStoreConcurrentCreateHasOneWinner(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	store := auth.NewPostgresStore(pool, 5*time.Second)

	const attempts = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		winners    int
		duplicates int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(ctx, "carol", "hash", nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case apperror.IsDuplicateUsername(err):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, attempts-1, duplicates)
}
