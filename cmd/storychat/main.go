package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/boddenberg/story-chat-client/internal/config"
	"github.com/boddenberg/story-chat-client/internal/infra/client"
	"github.com/boddenberg/story-chat-client/internal/infra/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the dependencies shared by every subcommand.
type app struct {
	cfg            *config.Config
	logger         *zap.Logger
	metrics        *observability.Metrics
	client         *client.ChatClient
	shutdownTracer func(context.Context) error
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var backendURL, logLevel string

	root := &cobra.Command{
		Use:          "storychat",
		Short:        "Client for the children's story chat backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), backendURL, logLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&backendURL, "backend-url", "", "Backend API root (overrides BACKEND_URL)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newChatCmd(a),
		newHealthCmd(a),
		newCleanupCmd(a),
		newReplCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context, backendURL, logLevel string) error {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	a.cfg = cfg

	// --- Logger ---
	a.logger = observability.NewLogger(cfg.LogLevel)
	a.logger.Debug("configuration loaded",
		zap.String("backend_url", cfg.BackendURL),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Bool("tracing_enabled", cfg.TracingEnabled),
	)

	// --- Tracing ---
	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
		if err != nil {
			return err
		}
		a.shutdownTracer = shutdown
	}

	// --- Metrics ---
	a.metrics = observability.NewMetrics()

	// --- Client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	a.client = client.NewChatClient(
		httpClient,
		cfg.BackendURL,
		observability.NewFailureRecorder(a.logger),
		a.metrics,
	)
	return nil
}

func (a *app) close() {
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(context.Background()); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
