package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"coursegen-backend/internal/config"
	"coursegen-backend/internal/handlers"
	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/router"
	"coursegen-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Invalid configuration: %v", err)
	}

	// ──── Step 2: Logger ────
	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logg.Sync()
	logg.Info("🚀 Starting Course Generator backend", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 3: Model Gateway ────
	gateway, closeGateway, err := newGateway(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("✗ Model gateway initialization failed", "provider", cfg.GatewayProvider, "model", cfg.Model(), "error", err)
	}
	defer closeGateway()
	logg.Info("✓ Model gateway ready", "provider", cfg.GatewayProvider, "model", gateway.Model(), "host", gateway.Host())

	// ──── Step 4: Services & Handlers ────
	courseService := services.NewCourseService(gateway, logg.With("component", "course_service"), cfg.Temperature, cfg.GatewayTimeout)
	courseHandler := handlers.NewCourseHandler(courseService, logg.With("component", "http"))

	// ──── Step 5: HTTP Server ────
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     router.New(courseHandler, cfg.AllowedOrigins),
		ReadTimeout: 15 * time.Second,
		// A generation may take the whole gateway timeout.
		WriteTimeout: cfg.GatewayTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info("✓ Server running", "url", "http://localhost:"+cfg.Port, "model", gateway.Model())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logg.Error("Server error", "error", err)
		logg.Sync()
		os.Exit(1)
	}
}

func newGateway(ctx context.Context, cfg *config.Config, logg *logger.Logger) (services.ModelGateway, func(), error) {
	switch cfg.GatewayProvider {
	case config.ProviderGemini:
		gw, err := services.NewGeminiGateway(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return gw, gw.Close, nil
	default:
		gw, err := services.NewOllamaGateway(cfg.OllamaHost, cfg.OllamaModel, cfg.GatewayTimeout)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := gw.Ping(pingCtx); err != nil {
			// Not fatal: Ollama may start after us, and requests report the failure.
			logg.Warn("Ollama is not reachable yet", "host", cfg.OllamaHost, "error", err)
		}
		return gw, func() {}, nil
	}
}
