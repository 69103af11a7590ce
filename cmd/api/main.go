// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Yardmap HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open storage and broadcasting (migrations run first when enabled).
//  4. Load the operator token verification key.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/yardmap/internal/api"
	"github.com/taibuivan/yardmap/internal/app"
	"github.com/taibuivan/yardmap/internal/platform/config"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/sec"
	"github.com/taibuivan/yardmap/internal/yard/cellinfo"
	"github.com/taibuivan/yardmap/internal/yard/layout"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageDriver),
		slog.String("broadcast", cfg.BroadcastDriver),
	)

	// Root context for startup. A deadline catches misconfiguration quickly
	// rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Infrastructure ─────────────────────────────────────────────────
	deps, err := app.Open(startupCtx, cfg, log)
	must(log, err, "open infrastructure")
	defer deps.Close()

	// ── 4. Token Verification ─────────────────────────────────────────────
	// The API only verifies; the private key is optional here.
	jwtSvc, err := sec.NewTokenService("", cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 5. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(deps.Checks, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Layout:    layout.NewHandler(deps.Layout),
		CellInfo:  cellinfo.NewHandler(deps.CellInfo),
		Stream:    api.NewStreamHandler(deps.Broker, constants.StreamHeartbeatInterval),
		Metrics:   deps.Metrics,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, api.Options{Port: cfg.ServerPort, CORS: cfg}, log, jwtSvc, handlers)

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		deps.Close()
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "yardmap"))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
