// Package main is the entry point for the devconnector API server.
//
// The main package stays minimal. Its job is to:
// 1. Read configuration (flags, .env, environment)
// 2. Create dependencies (logger, store connection)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/service, ...).
//
// Usage:
//
//	devconnector                     # serve on $PORT (default 5000)
//	devconnector --port 8080         # override the port
//	devconnector --env-file dev.env  # load a different .env file
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/devconnector/internal/config"
	"github.com/sakif/devconnector/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port    int
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "devconnector",
		Short: "Runs the devconnector REST API",
		Long: `Runs the devconnector REST API: accounts, developer profiles and posts.

Configuration comes from the environment (STORE_URI or MONGO_URI, SECRET_KEY,
PORT, APP_ENV, LOG_LEVEL). Outside production a .env file is read first.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, port, envFile)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load outside production")

	return cmd
}

func run(cmd *cobra.Command, port int, envFile string) error {
	// === 1. CONFIGURATION ===
	cfg, err := config.Load(envFile)
	if err != nil {
		// No logger yet: the level is part of the config.
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return err
	}
	if port != 0 {
		cfg.Port = port
	}

	// === 2. LOGGING ===
	// Text for humans in development, JSON for log shippers in production.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var logger *slog.Logger
	if cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	// === 3. STORE ===
	// No retry: a store that is down at startup is a deployment problem.
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		logger.Error("failed to open store",
			slog.String("kind", string(cfg.StoreKind)),
			slog.String("error", err.Error()),
		)
		return err
	}

	// === 4. SERVER ===
	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		SecretKey: cfg.SecretKey,
		StoreName: string(cfg.StoreKind),
	}, logger, store)
	if err != nil {
		store.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		return err
	}

	// Start blocks until SIGINT/SIGTERM and closes the store on the way out.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
