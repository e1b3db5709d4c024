// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iyunix/go-legalist/internal/app"
	"github.com/iyunix/go-legalist/internal/config"
	"github.com/iyunix/go-legalist/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	base, err := logging.NewZap(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer func() { _ = base.Sync() }()

	a, err := app.New(cfg, base, app.Options{})
	if err != nil {
		base.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := a.Migrate(context.Background()); err != nil {
		base.Fatal("database migration failed", zap.Error(err))
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	a.StartWorkers(workerCtx)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	base.Info("Legal AI Assistant starting",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.Environment),
		zap.Int("workers", cfg.JobWorkers))

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			base.Fatal("server startup failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	base.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		base.Error("server shutdown failed", zap.Error(err))
	}
	stopWorkers()
	a.Queue.Wait()
	if err := a.Close(); err != nil {
		base.Error("closing resources failed", zap.Error(err))
	}
	base.Info("server stopped")
}
