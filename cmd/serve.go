package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"refsync/core/loader"
	"refsync/core/logger"
	"refsync/core/middleware/auth"
	"refsync/core/middleware/rayid"
	"refsync/core/server"
	"refsync/core/storage"
	"refsync/feature/history"
	"refsync/feature/library"
	"refsync/feature/markdown"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// HealthPath is served without an API key.
const HealthPath = "/health"

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server exposing sync triggers, page rendering and run history.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmdContext(cmd))
		if err != nil {
			return err
		}
		defer a.close()
		zap.ReplaceGlobals(a.logger)

		// Exports are optional when serving
		store, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			a.logger.Warn("Storage disabled", zap.Error(err))
			store = nil
		}

		app, err := newServer(a.cfg.Server, a.logger,
			library.NewFeature(a.libraryService()),
			markdown.NewFeature(a.markdownService(store)),
			history.NewFeature(a.history, a.logger),
		)
		if err != nil {
			return err
		}

		errc := make(chan error, 1)
		go func() {
			a.logger.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			errc <- app.Listen(a.cfg.Server.Address())
		}()

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		a.logger.Info("Shutting down server...")
		return app.ShutdownWithTimeout(time.Duration(a.cfg.Server.ShutdownSeconds) * time.Second)
	},
}

// newServer builds the fiber app with middleware and every enabled feature.
func newServer(cfg server.Config, l *zap.Logger, features ...loader.Feature) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		rl.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey, Skip: []string{HealthPath}}))

	app.Get(HealthPath, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	mgr := loader.NewManager(l)
	for _, f := range features {
		mgr.Register(f)
	}
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
