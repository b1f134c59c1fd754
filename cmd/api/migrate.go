package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres"
	"github.com/isail-maritime/crew-rotation-api/internal/adapters/postgres/migrations"
	"github.com/isail-maritime/crew-rotation-api/internal/adapters/sqlite"
	"github.com/isail-maritime/crew-rotation-api/internal/platform/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageBackend == config.StorageSQLite {
				db, err := sqlite.Open(cfg.SQLitePath)
				if err != nil {
					return err
				}
				defer sqlite.Close(db)
				if err := sqlite.Migrate(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sqlite schema up to date")
				return nil
			}
			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				applied, err := migrations.Up(ctx, pool)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				}
				for _, name := range applied {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				sts, err := migrations.CurrentStatus(ctx, pool)
				if err != nil {
					return err
				}
				for _, s := range sts {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%05d  %-8s %s\n", s.Version, state, s.Path)
				}
				return nil
			})
		},
	})
	return cmd
}

func withPool(ctx context.Context, cfg config.Config, fn func(context.Context, *pgxpool.Pool) error) error {
	if cfg.StorageBackend != config.StoragePostgres {
		return errors.New("migrations need storage backend postgres (set CREW_STORAGE_BACKEND)")
	}
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 2, PingTimeout: 5 * time.Second})
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, pool)
}
