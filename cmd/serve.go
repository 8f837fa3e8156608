package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/killallgit/herotrend/api"
	"github.com/killallgit/herotrend/api/types"
	"github.com/killallgit/herotrend/internal/services/cleanup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the herotrend API server with the configured settings.

The server exposes cached hero series, runs the pipeline on demand and
serves Prometheus metrics. Runs are serialized within the process.

Endpoints:
  GET  /health
  GET  /metrics
  GET  /api/v1/hero/:id        cached hero series
  POST /api/v1/hero/:id        run the pipeline
  GET  /api/v1/analyses        recorded runs
  GET  /api/v1/analyses/:id    one recorded run

Example:
  herotrend serve
  herotrend serve --port 9090
  herotrend serve --host 127.0.0.1 --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

// newServer wires the application into an initialized HTTP server
func newServer(a *app, address string) (*api.Server, error) {
	version, _, _ := buildVersion()
	server := api.NewServer(address, a.config.Server)
	server.SetDependencies(&types.Dependencies{
		DB:       a.db,
		Pipeline: a.Pipeline(),
		Analyses: a.analyses,
		Version:  version,
	})
	server.SetRateLimit(a.config.RateLimiting)
	if err := server.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}
	return server, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	// Use config values if flags not provided
	host := serverHost
	if host == "" {
		host = appConfig.Server.Host
	}
	port := serverPort
	if port == 0 {
		port = appConfig.Server.Port
	}

	a, err := newApp(appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.transcoder.ValidateBinaries(); err != nil {
		zap.L().Warn("media tools unavailable, only cached artifacts can be served", zap.Error(err))
	}

	sweeper := cleanup.NewService(appConfig.Storage.CacheDir, appConfig.Storage.TempMaxAge, appConfig.Storage.CleanupInterval)
	sweeper.Start(cmd.Context())
	defer sweeper.Stop()

	address := fmt.Sprintf("%s:%d", host, port)
	server, err := newServer(a, address)
	if err != nil {
		return err
	}

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	zap.L().Info("server started", zap.String("address", address))
	fmt.Fprintf(cmd.OutOrStdout(), "Server is ready to handle requests at %s\n", address)

	// Wait for interrupt signal or server error
	var runErr error
	select {
	case <-cmd.Context().Done():
		zap.L().Info("shutting down server")
	case runErr = <-serverErr:
		zap.L().Error("server failed", zap.Error(runErr))
	}

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zap.L().Info("server stopped")
	return runErr
}
