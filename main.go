// This is the main entry point of the agency backend.
// It wires configuration, the database pool, services and handlers into an HTTP server
// and exposes them through a small cobra CLI (`serve`, `migrate`).
//
// Analogy to Nest.js: this file plays the role of `main.ts`, where the application is
// bootstrapped and told to listen for requests.
// @title Agency API
// @version 1.0
// @description Account and session API for the agency dashboard.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the root command of the agency CLI.
func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "agency",
		Short: "Agency account and session backend",
		Long: `Agency serves the account, session and profile API used by the
agency dashboard frontend, backed by PostgreSQL.`,
		SilenceUsage: true,
		// A bare `agency` serves, without applying migrations.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), false)
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Load .env file. In production, variables are usually set directly.
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				slog.Warn("failed to load .env file", "error", err)
			}
			return setupLogger(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// setupLogger installs a JSON slog handler as the process-wide default logger.
func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
