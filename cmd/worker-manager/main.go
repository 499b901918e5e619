// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"financial-graphrag/internal/app"
	"financial-graphrag/internal/common/camunda"
	"financial-graphrag/internal/common/config"
	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/server"

	egq "financial-graphrag/internal/workers/graphrag/execute-graph-query"
	grr "financial-graphrag/internal/workers/graphrag/ground-response"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	ctx := context.Background()

	rt, err := app.Build(ctx, cfg, app.Options{ConnectAttempts: 15, ConnectDelay: 2 * time.Second}, log)
	if err != nil {
		zapLog.Fatal("query engine initialization failed", zap.Error(err))
	}

	// --- Zeebe workers ---
	var zeebe *camunda.Client
	var workers []*camunda.CamundaWorker
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      30 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		if config.IsWorkerEnabled(cfg, egq.TaskType) {
			handler := egq.NewHandler(egq.LoadConfig(cfg), rt.Engine, log)
			workers = append(workers, startWorker(zeebe, cfg, egq.TaskType, handler, log))
		}
		if config.IsWorkerEnabled(cfg, grr.TaskType) {
			handler := grr.NewHandler(grr.LoadConfig(cfg), rt.Engine, log)
			workers = append(workers, startWorker(zeebe, cfg, grr.TaskType, handler, log))
		}
		zapLog.Info("Workers registered", zap.Int("count", len(workers)))
	}

	// --- HTTP API, health & metrics ---
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.New(rt.Engine, rt.Analyzer, rt.Graph, log).Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	rt.Close(shutdownCtx)

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client *camunda.Client, cfg *config.Config, taskType string, handler camunda.JobHandler, log logger.Logger) *camunda.CamundaWorker {
	wcfg := config.GetWorkerConfig(cfg, taskType)
	maxJobs := wcfg.MaxJobsActive
	if maxJobs <= 0 {
		maxJobs = cfg.Camunda.MaxJobsActive
	}
	return camunda.NewWorker(client.GetClient(), taskType, camunda.WorkerOptions{
		MaxJobsActive: maxJobs,
		Timeout:       wcfg.Timeout,
	}, handler, log)
}
