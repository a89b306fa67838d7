package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/shoplive/access-gate/pkg/util/errorutil"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	upstream    Pinger
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, upstream Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, upstream: upstream}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness by checking the upstream frontend.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.upstream.Ping(ctx); err != nil {
		return apperrors.NewServiceUnavailable("one or more dependencies unavailable", map[string]any{
			"upstream": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": fiber.Map{"upstream": "ok"},
	})
}
