package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/isail-maritime/crew-rotation-api/internal/adapters/httpapi"
	"github.com/isail-maritime/crew-rotation-api/internal/app/assignments"
	"github.com/isail-maritime/crew-rotation-api/internal/app/matches"
	"github.com/isail-maritime/crew-rotation-api/internal/app/users"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
	"github.com/isail-maritime/crew-rotation-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/isail-maritime/crew-rotation-api/internal/platform/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/platform/config"
	"github.com/isail-maritime/crew-rotation-api/internal/platform/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := logger.Setup(cfg.LogLevel, nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	// Production enforces bearer JWTs. AUTH_MODE=dev trusts X-Debug-Subject.
	var (
		authMW     func(http.Handler) http.Handler
		authIssuer string
	)
	switch cfg.AuthMode {
	case config.AuthModeDev:
		log.Warn("dev auth enabled; X-Debug-Subject is trusted")
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
		authIssuer = cfg.DevIssuer
	default:
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(cfg.JWT))
		authIssuer = cfg.JWT.Issuer
	}

	clk := platformclock.NewSystemClock()
	store, err := openStorage(ctx, cfg, authIssuer, clk, log)
	if err != nil {
		return err
	}
	defer store.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	matcher := matching.NewMatcher(clk)
	matcher.Workers = cfg.MatchWorkers

	userSvc := users.NewService(store.users, clk)
	userSvc.SearchLimit = cfg.SearchLimit
	assignmentSvc := assignments.NewService(store.ships, store.lands, store.users, clk, matcher)
	matchSvc := matches.NewService(userSvc, store.ships, store.lands, matcher, clk, matches.NewMetrics(reg), log)

	api := httpapi.NewServer(userSvc, assignmentSvc, matchSvc, store.idem, clk, log)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		RequestLogger:  httpapi.NewRequestLogger(log),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening",
			"addr", srv.Addr,
			"storage", cfg.StorageBackend,
			"auth_mode", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
