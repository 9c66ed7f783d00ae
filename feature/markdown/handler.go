package markdown

import (
	"refsync/core/logger"
	"refsync/core/notion"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for pages.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ExportRequest is the optional body of an export request.
type ExportRequest struct {
	Database string `json:"database"`
	Prefix   string `json:"prefix"`
}

// RegisterRoutes registers the page routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/pages")
	group.Get("/:id/markdown", h.HandleGetMarkdown)
	group.Post("/export", h.HandleExport)
}

// HandleGetMarkdown renders a page. The id may be a page url.
func (h *Handler) HandleGetMarkdown(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := notion.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	content, err := h.service.Render(c.UserContext(), id)
	if err != nil {
		l.Error("Page render failed", zap.String("page", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, ContentType)
	return c.SendString(content)
}

// HandleExport exports a database to the bucket.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var body ExportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	result, err := h.service.Export(c.UserContext(), body.Database, body.Prefix)
	if err != nil {
		l.Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}
