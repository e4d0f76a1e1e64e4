package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-evaluator/internal/db"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/server"
	"github.com/jonathan/resume-evaluator/internal/server/ratelimit"
)

var (
	servePort      int
	serveNoHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that evaluates uploaded resumes and, when DATABASE_URL is set,
stores evaluation history with exports and share links.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Run without a database even if DATABASE_URL is set")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	// A nil *db.DB must not be stored in the interface
	var store server.Store
	if cfg.DatabaseURL != "" && !serveNoHistory {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		store = database
	} else {
		logger.Warn().Msg("evaluation history is disabled")
	}

	limiter := ratelimit.NewLimiter(ratelimit.FromEnv(os.Getenv))
	return server.New(*cfg, pipeline, store, limiter).Start()
}
