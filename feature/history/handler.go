package history

import (
	"refsync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultLimit is the number of runs listed when a request names none.
const DefaultLimit = 20

// Handler serves the run history.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/runs", h.HandleList)
}

// HandleList returns the latest runs, newest first.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", DefaultLimit)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must not be negative",
		})
	}

	runs, err := h.repo.List(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(runs)
}
