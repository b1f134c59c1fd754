// Package testutil opens throwaway Postgres schemas for repository tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres"
	"github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/migrations"
)

// EnvDatabaseURL names the variable that enables Postgres tests.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// OpenMigratedPool returns a pool bound to a fresh schema with every migration applied.
// The schema is dropped when the test ends. Tests are skipped when TEST_DATABASE_URL is unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skipf("%s not set; skipping Postgres tests", EnvDatabaseURL)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := postgres.NewPool(ctx, url, postgres.PoolOptions{MaxConns: 1, PingTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("open admin pool: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	pool, err := postgres.NewPool(ctx, url, postgres.PoolOptions{SearchPath: schema})
	if err != nil {
		admin.Close()
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		admin.Close()
	})

	if _, err := migrations.Up(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}
