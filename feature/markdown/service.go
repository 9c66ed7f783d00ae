package markdown

import (
	"context"
	"fmt"

	"refsync/core/logger"
	"refsync/core/reconcile"
	"refsync/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportConfig locates exported objects.
type ExportConfig struct {
	Bucket string
	Region string
	Prefix string
}

// Service runs the pages sync, exports and page rendering.
type Service struct {
	workspace Workspace
	storage   storage.Client
	export    ExportConfig
	defaults  Options
	recorder  reconcile.Recorder
	logger    *zap.Logger
}

// NewService creates a new pages service. client may be nil when exports
// are not used; recorder may be nil.
func NewService(workspace Workspace, client storage.Client, export ExportConfig, defaults Options, recorder reconcile.Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workspace: workspace,
		storage:   client,
		export:    export,
		defaults:  defaults,
		recorder:  recorder,
		logger:    logger,
	}
}

// SyncPages runs the pages sync. Empty fields of opts take the service defaults.
func (s *Service) SyncPages(ctx context.Context, opts Options, run reconcile.Options) (*reconcile.Report, error) {
	if opts.Database == "" {
		opts.Database = s.defaults.Database
	}
	if opts.Dir == "" {
		opts.Dir = s.defaults.Dir
	}
	if opts.Conflict == "" {
		opts.Conflict = s.defaults.Conflict
	}
	opts.CreateMissingFields = opts.CreateMissingFields || s.defaults.CreateMissingFields

	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	l := logger.WithRun(s.logger, run.RunID).With(zap.String("sync", "markdown"))

	sync := NewPagesSync(s.workspace, opts, l)
	_, report, err := reconcile.NewEngine(sync, l).Run(ctx, run)
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
	} else {
		l.Info("Sync finished",
			zap.Int("executed", report.Executed),
			zap.Int("conflicts", len(report.Conflicts)),
		)
	}

	if s.recorder != nil && report != nil {
		if recErr := s.recorder.Record(ctx, report, err); recErr != nil {
			l.Warn("Failed to record run", zap.Error(recErr))
		}
	}
	return report, err
}

// Export renders every page of the database into the export bucket.
func (s *Service) Export(ctx context.Context, databaseID, prefix string) (*ExportResult, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("no storage configured")
	}
	if databaseID == "" {
		databaseID = s.defaults.Database
	}
	if prefix == "" {
		prefix = s.export.Prefix
	}
	return NewExporter(s.workspace, s.storage, s.export.Bucket, s.export.Region, s.logger).Export(ctx, databaseID, prefix)
}

// Render returns the markdown of one page.
func (s *Service) Render(ctx context.Context, pageID string) (string, error) {
	return RenderPage(ctx, s.workspace, pageID)
}
