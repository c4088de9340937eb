package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/osspulse/osspulse/internal/port"
	"github.com/osspulse/osspulse/internal/service"
)

// RefreshHandler exposes manual triggers for the enrichment pipeline,
// alongside the scheduled batch runs.
type RefreshHandler struct {
	refresh *service.RefreshService
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(refresh *service.RefreshService) *RefreshHandler {
	return &RefreshHandler{refresh: refresh}
}

// Register sets up refresh routes.
func (h *RefreshHandler) Register(api fiber.Router) {
	api.Post("/refresh", h.RefreshAll)
	api.Post("/tools/:slug/refresh", h.RefreshTool)
	api.Post("/tools/:slug/refresh-stars", h.RefreshStars)
}

// RefreshAll kicks off a full catalog refresh in the background and returns
// immediately. Batches can take minutes against the remote rate limit, so
// the request does not wait for the summary.
func (h *RefreshHandler) RefreshAll(c fiber.Ctx) error {
	go func() {
		summary, err := h.refresh.RefreshAll(context.Background())
		if err != nil {
			slog.Error("manual catalog refresh failed", "error", err)
			return
		}
		slog.Info("manual catalog refresh finished",
			"total", summary.Total,
			"enriched", summary.Enriched,
		)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "refresh started"})
}

// RefreshTool enriches a single tool synchronously and reports the outcome.
func (h *RefreshHandler) RefreshTool(c fiber.Ctx) error {
	slug := c.Params("slug")

	result, err := h.refresh.RefreshTool(c.Context(), slug)
	if errors.Is(err, port.ErrToolNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tool not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"tool": slug, "outcome": result.Outcome})
}

// RefreshStars updates only a tool's star count using the narrow query.
func (h *RefreshHandler) RefreshStars(c fiber.Ctx) error {
	slug := c.Params("slug")

	stars, err := h.refresh.RefreshStars(c.Context(), slug)
	if errors.Is(err, port.ErrToolNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tool not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"tool": slug, "stars": stars})
}
