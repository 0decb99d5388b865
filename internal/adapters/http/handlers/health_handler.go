package handlers

import (
	"context"
	"time"

	"room-scheduler/internal/config"

	"github.com/gofiber/fiber/v2"
)

// FreshnessReporter reports when schedule rows were last loaded
type FreshnessReporter interface {
	FetchedAt() (time.Time, bool)
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg   *config.Config
	rows  FreshnessReporter
	ping  func(ctx context.Context) error
	start time.Time
}

// NewHealthHandler creates a new health handler. ping may be nil when the
// schedule source has no connection to check.
func NewHealthHandler(cfg *config.Config, rows FreshnessReporter, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{cfg: cfg, rows: rows, ping: ping, start: time.Now()}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /status [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "room-scheduler gateway is running",
		"mode":    h.cfg.AppMode,
		"source":  h.cfg.Schedule.Source,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and schedule source health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	sourceStatus := "healthy"
	if h.ping != nil {
		if err := h.ping(c.UserContext()); err != nil {
			sourceStatus = "unhealthy"
			status = "degraded"
		}
	}

	checks := fiber.Map{
		"api":             "healthy",
		"schedule_source": sourceStatus,
	}

	body := fiber.Map{
		"status": status,
		"uptime": time.Since(h.start).Round(time.Second).String(),
		"checks": checks,
	}
	if h.rows != nil {
		if at, ok := h.rows.FetchedAt(); ok {
			body["schedule_fetched_at"] = at.Format(time.RFC3339)
		} else {
			checks["schedule_cache"] = "empty"
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(body)
}
