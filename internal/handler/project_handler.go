package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/doclens/doclens/internal/port"
)

// ProjectHandler exposes project listing.
type ProjectHandler struct {
	store port.DataStore
}

// NewProjectHandler creates a project handler.
func NewProjectHandler(store port.DataStore) *ProjectHandler {
	return &ProjectHandler{store: store}
}

// Register sets up the project routes.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("/projects", h.List)
}

// List returns one page of projects.
func (h *ProjectHandler) List(c fiber.Ctx) error {
	page := fiber.Query[int](c, "page", 1)
	pageSize := fiber.Query[int](c, "page_size", 10)

	projects, totalPages, err := h.store.ListProjects(c.Context(), page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"projects":    projects,
		"total_pages": totalPages,
	})
}
