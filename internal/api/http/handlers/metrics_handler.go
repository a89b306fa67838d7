package handlers

import "github.com/gofiber/fiber/v2"

// CounterSource exposes accumulated counters.
type CounterSource interface {
	Counters() map[string]float64
}

// MetricsHandler serves gate and request counters.
type MetricsHandler struct {
	source CounterSource
}

func NewMetricsHandler(source CounterSource) *MetricsHandler {
	return &MetricsHandler{source: source}
}

// Counters handles GET /_gate/metrics.
func (h *MetricsHandler) Counters(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"counters": h.source.Counters()})
}
