package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	googlemonitoring "github.com/llmgate/promptrefiner/googleMonitoring"
	"github.com/llmgate/promptrefiner/heuristic"
	"github.com/llmgate/promptrefiner/internal/server"
	"github.com/llmgate/promptrefiner/localratelimiter"
	"github.com/llmgate/promptrefiner/metrics"
	"github.com/llmgate/promptrefiner/modelclient"
	"github.com/llmgate/promptrefiner/refiner"
	"github.com/llmgate/promptrefiner/session"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prompt refinement web API",
	Long: `Run the HTTP API on the configured port (5001 in development, 5000 in production).

Routes: GET /, GET /csrf, POST /refine, GET /download, GET /healthz, GET /metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.port and PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Model Client
	model := modelclient.NewFromConfig(ctx, cfg.LLM)
	defer model.Close()

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)
	orchestrator := refiner.NewOrchestrator(model, heuristic.NewRefiner(), refiner.WithRecorder(recorder))

	// Local Rate Limiter
	rateLimiter := localratelimiter.NewRateLimiter(localratelimiter.WithLimitedHook(recorder.RateLimited))
	go rateLimiter.Run(ctx, time.Minute)

	// Google Monitoring Client
	if cfg.Monitoring.ProjectId != "" {
		monitoringClient, err := googlemonitoring.NewMonitoringClient(ctx, cfg.Monitoring.ProjectId, cfg.Monitoring.JsonKey, metrics.Namespace+"_", prometheus.DefaultGatherer)
		if err != nil {
			return fmt.Errorf("failed to create monitoring client: %w", err)
		}
		defer monitoringClient.Close()
		go monitoringClient.Run(ctx, cfg.Monitoring.PushInterval)
	}

	router := server.NewRouter(server.Dependencies{
		Config:      cfg,
		Refiner:     orchestrator,
		Provider:    model.Provider(),
		Store:       session.NewStore(cfg.Session.TTL),
		RateLimiter: rateLimiter,
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("environment", cfg.Server.Environment).
			Bool("model_available", orchestrator.ModelAvailable()).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
