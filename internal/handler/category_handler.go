package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/osspulse/osspulse/internal/adapter/store"
)

// CategoryHandler serves category listings and per-category tool rankings.
type CategoryHandler struct {
	store *store.PostgresStore
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(store *store.PostgresStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// Register sets up category routes.
func (h *CategoryHandler) Register(api fiber.Router) {
	categories := api.Group("/categories")
	categories.Get("/", h.List)
	categories.Get("/:slug/tools", h.Tools)
}

// List returns all categories.
func (h *CategoryHandler) List(c fiber.Ctx) error {
	cats, err := h.store.ListCategories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"categories": cats, "count": len(cats)})
}

// Tools returns published tools in one category, ranked by score.
func (h *CategoryHandler) Tools(c fiber.Ctx) error {
	tools, err := h.store.ListToolsByCategory(c.Context(), c.Params("slug"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"tools": tools, "count": len(tools)})
}
