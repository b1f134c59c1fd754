// Package migrations embeds the Postgres schema and applies it with goose.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

func newProvider(pool *pgxpool.Pool) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedded, "sql")
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDBFromPool(pool)
	p, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// Up applies every pending migration and returns the names of the files applied.
func Up(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	p, err := newProvider(pool)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate up: %w", err)
	}
	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.String())
	}
	return applied, nil
}

// Status is the applied state of one migration file.
type Status struct {
	Version int64
	Path    string
	Applied bool
}

func CurrentStatus(ctx context.Context, pool *pgxpool.Pool) ([]Status, error) {
	p, err := newProvider(pool)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	sts, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate status: %w", err)
	}
	out := make([]Status, 0, len(sts))
	for _, s := range sts {
		out = append(out, Status{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}
