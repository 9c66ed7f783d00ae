package library

import (
	"context"

	"refsync/core/logger"
	"refsync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests triggering library syncs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SyncRequest is the optional body of a sync request.
type SyncRequest struct {
	Database string `json:"database"`
	Force    bool   `json:"force"`
	DryRun   bool   `json:"dry_run"`
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/refs", h.HandleSyncRefs)
	group.Post("/collections", h.HandleSyncCollections)
}

// HandleSyncRefs runs the references sync and returns its report.
func (h *Handler) HandleSyncRefs(c *fiber.Ctx) error {
	return h.run(c, h.service.SyncRefs)
}

// HandleSyncCollections runs the collections sync and returns its report.
func (h *Handler) HandleSyncCollections(c *fiber.Ctx) error {
	return h.run(c, h.service.SyncCollections)
}

type syncFunc func(ctx context.Context, opts Options, run reconcile.Options) (*reconcile.Report, error)

func (h *Handler) run(c *fiber.Ctx, sync syncFunc) error {
	l := logger.WithRayID(h.service.logger, c)

	var body SyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	report, err := sync(c.UserContext(), Options{Database: body.Database, Force: body.Force}, reconcile.Options{DryRun: body.DryRun})
	if err != nil {
		l.Error("Sync request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
		})
	}

	return c.JSON(report)
}
