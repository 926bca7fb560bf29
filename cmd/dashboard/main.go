// Command dashboard serves the US tornado events dashboard.
//
// Startup is a linear pipeline: load config, ensure the dataset exists
// locally (downloading it once if absent), clean the CSV into the in-memory
// store, flatten the county boundaries, then serve HTTP until terminated.
// Any failure before the server starts is fatal and exits non-zero.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dingshijian/tornado-dashboard/internal/config"
	"github.com/dingshijian/tornado-dashboard/internal/fetch"
	"github.com/dingshijian/tornado-dashboard/internal/figure"
	"github.com/dingshijian/tornado-dashboard/internal/geo"
	"github.com/dingshijian/tornado-dashboard/internal/observability"
	"github.com/dingshijian/tornado-dashboard/internal/server"
	"github.com/dingshijian/tornado-dashboard/internal/tornado"
)

var (
	flagAddr         string
	flagDataset      string
	flagBoundary     string
	flagSkipDownload bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the US tornado events dashboard",
		Long: `Serves an interactive map of historical US tornado events (1980-2024),
filterable by year and styled by Fujita rating. Configuration comes from
environment variables (or a .env file); flags override the listen address
and file paths.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides HTTP_ADDR/PORT)")
	rootCmd.Flags().StringVar(&flagDataset, "dataset", "", "dataset CSV path (overrides DATASET_PATH)")
	rootCmd.Flags().StringVar(&flagBoundary, "boundary", "", "county GeoJSON path (overrides BOUNDARY_PATH)")
	rootCmd.Flags().BoolVar(&flagSkipDownload, "skip-download", false, "fail instead of downloading a missing dataset")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	applyFlags(cfg)

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if flagSkipDownload {
		if _, err := os.Stat(cfg.DatasetPath); err != nil {
			logger.Error("dataset missing and download skipped", "path", cfg.DatasetPath)
			return err
		}
	} else {
		fetcher := fetch.New(logger, metrics)
		if err := fetcher.EnsureLocalCopy(ctx, cfg.DatasetPath, cfg.DatasetURL); err != nil {
			logger.Error("dataset download failed", "error", err)
			return err
		}
	}

	loader := tornado.NewLoader(logger, metrics)
	store, err := loader.Load(cfg.DatasetPath, tornado.LoadOptions{
		EventType:     cfg.EventType,
		DefaultFScale: cfg.DefaultRating,
	})
	if err != nil {
		logger.Error("dataset load failed", "error", err)
		return err
	}

	flattener := geo.NewFlattener(logger, metrics)
	boundary, err := flattener.FlattenBoundaries(cfg.BoundaryPath, cfg.SimplifyTolerance)
	if err != nil {
		logger.Error("boundary flattening failed", "error", err)
		return err
	}

	builder := figure.NewCachedBuilder(
		figure.NewBuilder(store, boundary, metrics),
		cfg.FigureCacheSize,
		metrics,
	)
	srv := server.NewServer(cfg.HTTPAddr, builder, store, logger, metrics)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("http server error", "error", err)
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

func applyFlags(cfg *config.Config) {
	if flagAddr != "" {
		cfg.HTTPAddr = flagAddr
	}
	if flagDataset != "" {
		cfg.DatasetPath = flagDataset
	}
	if flagBoundary != "" {
		cfg.BoundaryPath = flagBoundary
	}
}
