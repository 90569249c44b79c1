package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"guildbot/database"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:16-alpine"

// TestDatabase is a migrated PostgreSQL container with an open pool.
type TestDatabase struct {
	Container *postgres.PostgresContainer
	DB        *database.DB
	URL       string
}

// SetupTestDatabase starts a throwaway PostgreSQL, runs the migrations and connects.
// Everything is torn down through t.Cleanup.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("database tests need docker; skipped with -short")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("guildbot_test"),
		postgres.WithUsername("guildbot"),
		postgres.WithPassword("guildbot"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"project": "guildbot",
			"test":    t.Name(),
		}),
	)
	require.NoError(t, err, "starting postgres container")

	td := &TestDatabase{Container: container}
	t.Cleanup(func() { td.teardown(t) })

	td.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrationsWithURL(td.URL), "applying migrations")

	td.DB, err = database.NewConnection(ctx, td.URL)
	require.NoError(t, err)
	return td
}

// Truncate empties the given tables so subtests can share one container.
func (td *TestDatabase) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	if len(tables) == 0 {
		return
	}
	_, err := td.DB.Exec(context.Background(),
		fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	require.NoError(t, err)
}

func (td *TestDatabase) teardown(t *testing.T) {
	td.DB.Close()
	if td.Container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := td.Container.Terminate(ctx); err != nil {
		t.Logf("terminating postgres container: %v", err)
	}
}
