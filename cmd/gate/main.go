package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/shoplive/access-gate/internal/api/http"
	"github.com/shoplive/access-gate/internal/api/http/handlers"
	"github.com/shoplive/access-gate/internal/auth"
	"github.com/shoplive/access-gate/internal/config"
	"github.com/shoplive/access-gate/internal/gate"
	"github.com/shoplive/access-gate/internal/observability"
	"github.com/shoplive/access-gate/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.SecretFromDefault {
		logger.Warn("JWT_SECRET_KEY not set; using the built-in development secret", zap.String("env", cfg.App.Env))
	}

	metrics, err := observability.NewMetrics(cfg.App.Name)
	if err != nil {
		logger.Fatal("failed to init metrics", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, 0)
	accessGate, err := gate.New(gate.Options{
		Verifier: tokens,
		Logger:   logger.Named("access"),
	})
	if err != nil {
		logger.Fatal("failed to build gate", zap.Error(err))
	}

	relay := upstream.NewRelay(cfg.Upstream, logger.Named("upstream"))

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, relay),
		Metrics:  handlers.NewMetricsHandler(metrics),
		Gate:     accessGate,
		Recorder: metrics,
		Upstream: relay.Handle,
	})

	go func() {
		logger.Info("gate listening", zap.String("addr", cfg.App.Addr()), zap.String("upstream", cfg.Upstream.URL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
