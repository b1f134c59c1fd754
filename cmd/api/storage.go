package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	memidempotency "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/idempotency"
	memlandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/landrepo"
	memshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/shiprepo"
	memuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres"
	pgidempotency "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/idempotency"
	pglandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/landrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/migrations"
	pgshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/shiprepo"
	pguserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	sqliteidempotency "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/idempotency"
	sqlitelandrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/landrepo"
	sqliteshiprepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/shiprepo"
	sqliteuserrepo "github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite/userrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/platform/config"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
	idempotencyport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
	landrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
	shiprepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
	userrepoport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

// idempotencyRetention bounds how long the in-memory backend replays responses.
const idempotencyRetention = 24 * time.Hour

type storage struct {
	users userrepoport.Repository
	ships shiprepoport.Repository
	lands landrepoport.Repository
	idem  idempotencyport.Store
	close func()
}

// openStorage wires the configured backend. Subjects are scoped by issuer.
func openStorage(ctx context.Context, cfg config.Config, issuer string, clk clockport.Clock, logger *slog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{PingTimeout: 5 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("invalid postgres config: %w", err)
		}
		applied, err := migrations.Up(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", "count", len(applied))
		}
		return &storage{
			users: pguserrepo.NewRepo(pool, issuer),
			ships: pgshiprepo.NewRepo(pool),
			lands: pglandrepo.NewRepo(pool),
			idem:  pgidempotency.NewStore(pool, issuer),
			close: pool.Close,
		}, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(db); err != nil {
			_ = sqlite.Close(db)
			return nil, err
		}
		return &storage{
			users: sqliteuserrepo.NewRepo(db, issuer),
			ships: sqliteshiprepo.NewRepo(db),
			lands: sqlitelandrepo.NewRepo(db),
			idem:  sqliteidempotency.NewStore(db, issuer),
			close: func() {
				if err := sqlite.Close(db); err != nil {
					logger.Warn("closing sqlite", "err", err)
				}
			},
		}, nil
	default:
		return &storage{
			users: memuserrepo.NewRepo(),
			ships: memshiprepo.NewRepo(),
			lands: memlandrepo.NewRepo(),
			idem:  memidempotency.NewStore(memidempotency.WithRetention(idempotencyRetention, clk)),
			close: func() {},
		}, nil
	}
}
