/*
Package main is the entry point for the Debate Hub relay.

It loads configuration, initializes the global logger, builds the relay service and HTTP
router, and shuts the server down gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"debatehub/internal/app/chat"
	"debatehub/internal/configs"
	"debatehub/internal/handler"
	"debatehub/internal/pkg/limiter"
	"debatehub/internal/pkg/logx"
	"debatehub/internal/pkg/telemetry"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("gate_leave_notifications", cfg.GateLeaveNotifications).
		Bool("metrics_export", cfg.OTLPEndpoint != "").
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logx.Fatal(err, "Failed to initialize OpenTelemetry")
	}

	service := chat.NewService(chat.Options{
		GateLeaveNotifications: cfg.GateLeaveNotifications,
		Metrics:                telemetry.New(),
	})

	connectLimiter := limiter.New(rate.Limit(cfg.ConnectRate), cfg.ConnectBurst)
	defer connectLimiter.Stop()

	router := handler.Router(&handler.AppDeps{
		Service:        service,
		Config:         cfg,
		ConnectLimiter: connectLimiter,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Relay server listening on %s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "HTTP server shutdown did not complete cleanly")
	}

	service.Shutdown()

	if err := otelShutdown(shutdownCtx); err != nil {
		logx.Error(err, "Metrics provider shutdown did not complete cleanly")
	}

	logx.Info("Server gracefully stopped.")
}
