// Package server owns process boot and the listen/serve lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruberanziza1/alx-project-nexus/app/jobs"
	"github.com/ruberanziza1/alx-project-nexus/config"
	"github.com/ruberanziza1/alx-project-nexus/internal/kernel"
	"github.com/ruberanziza1/alx-project-nexus/pkg/cache"
	"github.com/ruberanziza1/alx-project-nexus/pkg/database"
	"github.com/ruberanziza1/alx-project-nexus/pkg/logger"
	"github.com/ruberanziza1/alx-project-nexus/pkg/queue"
	"github.com/ruberanziza1/alx-project-nexus/pkg/schedule"
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, falling back to in-process cache and queue", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.DB

	// Background machinery.
	jobs.Register()
	jobs.Wire(db)
	queue.UseDB(db)
	if cache.RDB != nil && config.Get("QUEUE_DRIVER", "memory") == "redis" {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, config.GetInt("QUEUE_WORKERS", 4))

	svc := kernel.BuildServices(db)
	registerCleanup(svc)
	schedule.Start(ctx)

	addr := ":" + config.Get("APP_PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           kernel.Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// registerCleanup mounts the periodic maintenance tasks: stale one-time
// codes go hourly, old login attempts daily.
func registerCleanup(svc *kernel.Services) {
	schedule.Hourly().Name("purge-stale-codes").WithoutOverlapping().Run(func() {
		n, err := svc.OTP.PurgeStale(time.Now().Add(-24 * time.Hour))
		if err != nil {
			logger.Error("cleanup: purge stale codes", "error", err)
			return
		}
		if n > 0 {
			logger.Info("cleanup: purged stale codes", "count", n)
		}
	})

	schedule.Daily().Name("purge-login-attempts").WithoutOverlapping().Run(func() {
		n, err := svc.Limiter.PurgeAttempts(time.Now().AddDate(0, 0, -30))
		if err != nil {
			logger.Error("cleanup: purge login attempts", "error", err)
			return
		}
		if n > 0 {
			logger.Info("cleanup: purged login attempts", "count", n)
		}
	})
}
