package cmd

import (
	"context"
	"fmt"

	"refsync/core/config"
	"refsync/core/database"
	"refsync/core/logger"
	"refsync/core/notion"
	"refsync/core/reconcile"
	"refsync/core/storage"
	"refsync/core/zotero"
	"refsync/feature/history"
	"refsync/feature/library"
	"refsync/feature/markdown"

	"go.uber.org/zap"
)

// app bundles what every command builds from the configuration.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	notion  *notion.Client
	zotero  *zotero.Client
	history *history.Repository
}

// setup loads the configuration and builds the clients. The run history is
// optional: a database that cannot be reached only disables it.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: l,
		notion: notion.New(cfg.Notion),
		zotero: zotero.New(cfg.Zotero),
	}

	if db, err := database.Connect(cfg.Database); err != nil {
		l.Warn("Run history disabled", zap.Error(err))
	} else {
		repo := history.NewRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			l.Warn("Run history disabled", zap.Error(err))
		} else {
			a.history = repo
		}
	}
	return a, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// recorder returns the history as a recorder, or nil without a database.
func (a *app) recorder() reconcile.Recorder {
	if a.history == nil {
		return nil
	}
	return a.history
}

func (a *app) libraryService() *library.Service {
	return library.NewService(a.notion, a.zotero, library.Options{
		Database:            a.cfg.Sync.RefsDatabase,
		CollectionsDatabase: a.cfg.Sync.CollectionsDatabase,
		CreateMissingFields: a.cfg.Sync.CreateMissingFields,
	}, a.recorder(), a.logger)
}

// markdownService builds the pages service. client may be nil when nothing
// is exported.
func (a *app) markdownService(client storage.Client) *markdown.Service {
	return markdown.NewService(a.notion, client, markdown.ExportConfig{
		Bucket: a.cfg.Storage.Bucket,
		Region: a.cfg.Storage.Region,
		Prefix: a.cfg.Sync.ExportPrefix,
	}, markdown.Options{
		Database:            a.cfg.Sync.PagesDatabase,
		Dir:                 a.cfg.Sync.PagesDir,
		Conflict:            markdown.ConflictSkip,
		CreateMissingFields: a.cfg.Sync.CreateMissingFields,
	}, a.recorder(), a.logger)
}

// printReport logs the outcome of a run.
func printReport(l *zap.Logger, report *reconcile.Report) {
	s := report.Summary
	l.Info("Sync report",
		zap.String("sync", report.Sync),
		zap.String("run_id", report.RunID),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("total", s.Total),
		zap.Int("push_a", s.PushA),
		zap.Int("push_b", s.PushB),
		zap.Int("delete_a", s.DeleteA),
		zap.Int("delete_b", s.DeleteB),
		zap.Int("creates", s.Creates),
		zap.Int("ignored", s.Ignored),
		zap.Int("executed", report.Executed),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
	for _, key := range report.Conflicts {
		l.Warn("Conflict left unresolved", zap.String("key", key))
	}
}
