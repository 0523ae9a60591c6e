package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"metrics-orchestrator/internal/api"
	"metrics-orchestrator/internal/client"
	"metrics-orchestrator/internal/config"
	"metrics-orchestrator/internal/logging"
	"metrics-orchestrator/internal/orchestrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting_api", "service", "metrics-orchestrator", "http_addr", cfg.HTTPAddr)

	httpClient := client.NewHTTPClient()
	policy := client.RetryPolicy{
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}

	users := client.NewUsersClient(logger, cfg.UsersURL, httpClient, policy)
	accounts := client.NewAccountsClient(logger, cfg.AccountsURL, httpClient, policy)
	metrics := client.NewMetricsClient(logger, cfg.MetricsURL, httpClient, policy)
	dashboard := client.NewDashboardClient(logger, cfg.DashboardURL, httpClient, policy)

	orc := orchestrator.New(logger, users, accounts, metrics, dashboard,
		users, accounts, metrics, dashboard)

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(logger, orc, cfg)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_listen_failed", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("api_started", "addr", cfg.HTTPAddr)

	// graceful shutdown
	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	} else {
		logger.Info("http_server_stopped")
	}

	logger.Info("api_stopped")
}
