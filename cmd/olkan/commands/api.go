package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olkan/catalog/internal/api"
	"github.com/olkan/catalog/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the catalog API server",
	Long: `Start the REST API server.

Endpoints:
  GET    /health
  POST   /api/v1/datasets
  GET    /api/v1/datasets
  GET    /api/v1/datasets/{id}
  PUT    /api/v1/datasets/{id}
  DELETE /api/v1/datasets/{id}
  GET    /api/v1/datasets/{id}/quality
  GET    /api/ai/quality/stats
  POST   /api/ai/quality/assess
  GET    /api/ai/quality/benchmarks

Example:
  olkan api
  olkan api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	var reports handlers.ReportStore
	if rt.reports != nil {
		reports = rt.reports
	}
	var cache handlers.ReportCache
	if rt.cache != nil {
		cache = rt.cache
	}

	datasetHandler := handlers.NewDatasetHandler(rt.storage, cache, rt.log)
	qualityHandler := handlers.NewQualityHandler(
		rt.assessor,
		rt.storage,
		reports,
		cache,
		rt.cfg.Quality.ReportCacheTTL,
		rt.cfg.Quality.BatchWorkers,
		rt.log,
	)

	router := api.NewRouter(rt.cfg, datasetHandler, qualityHandler, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	rt.log.Infof("API server listening on :%s", rt.cfg.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
