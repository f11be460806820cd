// Package testhelper provisions a migrated PostgreSQL database for
// integration and e2e tests and seeds rows through the record layer.
package testhelper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/briancappello/starter/internal/adapter/postgres"
)

// EnvDatabaseURL points the tests at an existing database instead of a
// container. The database is migrated up before use.
const EnvDatabaseURL = "TEST_DATABASE_URL"

const (
	pgImage    = "postgres:17-alpine"
	pgUser     = "starter"
	pgPassword = "starter"
	pgDatabase = "starter_test"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB returns a pool on the shared test database. The pool is
// closed on cleanup; the database outlives the test.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, DSN(t))
	if err != nil {
		t.Fatalf("testhelper: open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// DSN returns the connection string of the shared, migrated test database,
// starting a container on first use unless EnvDatabaseURL is set.
func DSN(t *testing.T) string {
	t.Helper()

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		sharedDSN = os.Getenv(EnvDatabaseURL)
		if sharedDSN == "" {
			sharedDSN, initErr = startPostgres(ctx)
			if initErr != nil {
				return
			}
		}
		initErr = migrateUp(ctx, sharedDSN)
	})
	if initErr != nil {
		t.Fatalf("testhelper: %v", initErr)
	}
	return sharedDSN
}

func startPostgres(ctx context.Context) (string, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			// postgres logs readiness twice: once for the init run, once for real.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start %s: %w", pgImage, err)
	}

	endpoint, err := c.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		return "", fmt.Errorf("container endpoint: %w", err)
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", pgUser, pgPassword, endpoint, pgDatabase), nil
}

func migrateUp(ctx context.Context, dsn string) error {
	m, err := postgres.NewMigrator(dsn, slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(ctx)
}
