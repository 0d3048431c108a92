package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/agents"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/auth"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/healthcheck"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/knowledge"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/llm"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/server"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/storage"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/worker"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

func main() {
	// Set timezone to UTC
	time.Local = time.UTC

	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	observer.InitMetrics(cfg.Metrics.Enabled)

	logger.Log.Info("Starting Daisi SDR Service",
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Server.Port),
		zap.String("completion_model", cfg.Completion.Model),
	)

	// Storage
	repo, err := storage.NewPostgresRepo(cfg.Database.PostgresDSN, cfg.Database.PostgresAutoMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize Postgres repository", zap.Error(err))
	}

	// Agent orchestration
	completionClient := llm.NewHTTPClient(cfg.Completion)
	knowledgeBuilder := knowledge.NewBuilder(repo)
	agentService := agents.NewService(completionClient, knowledgeBuilder, repo, repo)

	actionWorker, err := worker.NewActionWorker(cfg.WorkerPools.AgentActions, repo, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to initialize action worker pool", zap.Error(err))
	}

	// HTTP surface
	authProvider := auth.NewHeaderProvider(*cfg)
	apiServer := server.NewServer(cfg, repo, agentService, actionWorker, authProvider)

	healthServer := healthcheck.NewServer(strconv.Itoa(cfg.Metrics.Port), logger.Log, repo.Ping)
	if cfg.Metrics.Enabled {
		healthServer.RegisterMetricsHandler(promhttp.Handler())
	}
	healthServer.Start()

	serverErr := make(chan error, 1)
	utils.SafeGo(func() {
		serverErr <- apiServer.Start()
	}, nil)

	// Wait for termination
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Log.Error("HTTP server exited", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Failed to shut down HTTP server cleanly", zap.Error(err))
	}

	actionWorker.Stop()

	if err := healthServer.Stop(shutdownCtx); err != nil {
		logger.Log.Error("Failed to shut down health check server cleanly", zap.Error(err))
	}

	if err := repo.Close(shutdownCtx); err != nil {
		logger.Log.Error("Failed to close repository cleanly", zap.Error(err))
	}

	logger.Log.Info("Shutdown complete")
}
