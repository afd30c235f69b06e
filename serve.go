package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/user/agency-go/auth"
	"github.com/user/agency-go/config"
	"github.com/user/agency-go/dashboard"
	"github.com/user/agency-go/db"
	"github.com/user/agency-go/metrics"
)

const shutdownTimeout = 30 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var applyMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. Configuration is read from the environment
(and a .env file if present). The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), applyMigrations)
		},
	}

	cmd.Flags().BoolVar(&applyMigrations, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func runServe(ctx context.Context, applyMigrations bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	slog.Info("configuration loaded", "auth", cfg.Auth.String(), "port", cfg.Server.Port)

	if applyMigrations {
		if err := db.RunMigrations(cfg.Database.DSN()); err != nil {
			return oops.Code("MIGRATION_FAILED").Wrap(err)
		}
		slog.Info("migrations applied")
	}

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("database", cfg.Database.DBName).Wrap(err)
	}
	defer pool.Close()

	handler, err := newRouter(routerDeps{
		Config:  cfg,
		Store:   auth.NewPostgresStore(pool, cfg.Database.QueryTimeout),
		Counter: dashboard.NewPostgresCounter(pool, cfg.Database.QueryTimeout),
		Metrics: metrics.New(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	slog.Info("server stopped gracefully")
	return nil
}
