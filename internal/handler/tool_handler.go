package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/osspulse/osspulse/internal/adapter/store"
	"github.com/osspulse/osspulse/internal/domain"
	"github.com/osspulse/osspulse/internal/port"
)

// ToolHandler serves the public catalog: ranked tool listings and tool
// detail pages with their topics, languages, and alternatives.
type ToolHandler struct {
	store *store.PostgresStore
}

// NewToolHandler creates a new tool handler.
func NewToolHandler(store *store.PostgresStore) *ToolHandler {
	return &ToolHandler{store: store}
}

// Register sets up tool routes.
func (h *ToolHandler) Register(api fiber.Router) {
	tools := api.Group("/tools")
	tools.Get("/", h.List)
	tools.Post("/", h.Create)
	tools.Get("/:slug", h.Get)
}

// List returns published tools ranked by health score.
func (h *ToolHandler) List(c fiber.Ctx) error {
	tools, err := h.store.ListPublishedTools(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"tools": tools, "count": len(tools)})
}

// ToolDetail is a tool with its attached topics, languages, and the
// proprietary products it replaces.
type ToolDetail struct {
	domain.Tool
	Topics       []domain.Topic       `json:"topics"`
	Languages    []domain.Language    `json:"languages"`
	Alternatives []domain.Alternative `json:"alternatives"`
}

// Get returns one tool by slug with its attachments.
func (h *ToolHandler) Get(c fiber.Ctx) error {
	slug := c.Params("slug")

	tool, err := h.store.GetToolBySlug(c.Context(), slug)
	if errors.Is(err, port.ErrToolNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tool not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	topics, err := h.store.ListToolTopics(c.Context(), tool.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	langs, err := h.store.ListToolLanguages(c.Context(), tool.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	alts, err := h.store.ListAlternativesForTool(c.Context(), tool.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(ToolDetail{
		Tool:         *tool,
		Topics:       topics,
		Languages:    langs,
		Alternatives: alts,
	})
}

// Create adds a new tool record as a draft (manual submission).
func (h *ToolHandler) Create(c fiber.Ctx) error {
	var body struct {
		Name        string  `json:"name"`
		Website     string  `json:"website"`
		Repository  *string `json:"repository"`
		Description string  `json:"description"`
		Bump        *int    `json:"bump"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if strings.TrimSpace(body.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	tool := &domain.Tool{
		Name:        body.Name,
		Slug:        domain.Slugify(body.Name),
		Website:     body.Website,
		Repository:  body.Repository,
		Description: body.Description,
		Bump:        body.Bump,
		Status:      domain.ToolStatusDraft,
	}

	created, err := h.store.CreateTool(c.Context(), tool)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}
