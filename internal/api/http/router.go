package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shoplive/access-gate/internal/api/http/handlers"
	"github.com/shoplive/access-gate/internal/gate"
	"github.com/shoplive/access-gate/internal/observability"
	apperrors "github.com/shoplive/access-gate/pkg/util/errorutil"
)

// OpsPrefix hosts the gate's own endpoints. It is excluded from the gate.
const OpsPrefix = "/_gate"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Metrics  *handlers.MetricsHandler
	Gate     *gate.Gate
	Recorder *observability.Metrics
	Excluded []string
	// Upstream receives every request that is not an ops endpoint.
	Upstream fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	ops := app.Group(OpsPrefix)
	ops.Get("/health/live", cfg.Health.Live)
	ops.Get("/health/ready", cfg.Health.Ready)
	ops.Get("/metrics", cfg.Metrics.Counters)
	ops.All("/*", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("endpoint", map[string]any{"path": c.Path()})
	})

	excluded := cfg.Excluded
	if excluded == nil {
		excluded = gate.DefaultExcludedPrefixes()
	}

	var recorder gate.DecisionRecorder
	if cfg.Recorder != nil {
		recorder = cfg.Recorder
	}
	app.Use(cfg.Gate.Middleware(recorder, excluded))
	app.Use(cfg.Upstream)
}
