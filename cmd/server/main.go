// Package main implements the entry point for the TaskNest API server,
// a multi-tenant task tracker with token-based authentication.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tasknest/tasknest-api/internal/api"
	apimiddleware "github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/platform/dbresolver"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/platform/sqlstore"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run wires configuration, logging, storage, services and the HTTP
// server, then blocks until shutdown. Separated from main so defers run
// before the process exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx := logger.WithLogger(context.Background(), appLogger)

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// Resolve the store address with the configured fallback policy, then
	// open it; Open has its own emergency fallback so an unreachable
	// primary store degrades to a local one instead of aborting startup.
	addr, err := dbresolver.Resolve(ctx, cfg.Database.URL, cfg.Database.AllowFallback)
	if err != nil {
		return fmt.Errorf("failed to resolve store address: %w", err)
	}

	db, addr, err := dbresolver.Open(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	slog.Info("store opened",
		"driver", addr.Driver,
		"local", addr.IsLocal())

	if err := sqlstore.Migrate(ctx, db, addr.Driver); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}

	// Stores
	userStore := sqlstore.NewUserStore(db, appLogger)
	taskStore := sqlstore.NewTaskStore(db, appLogger)

	// Services
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier()
	taskService := service.NewTaskService(taskStore, appLogger)

	// HTTP surface
	authHandler := api.NewAuthHandler(userStore, jwtService, passwordVerifier, appLogger)
	taskHandler := api.NewTaskHandler(taskService, appLogger)
	authMiddleware := apimiddleware.NewAuthMiddleware(jwtService)
	router := api.NewRouter(authHandler, taskHandler, authMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		// Request contexts inherit the application logger, so the trace
		// middleware enriches it rather than the process default.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
