package library

import (
	"context"

	"refsync/core/logger"
	"refsync/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the library syncs against configured databases.
type Service struct {
	workspace Workspace
	library   Library
	defaults  Options
	recorder  reconcile.Recorder
	logger    *zap.Logger
}

// NewService creates a new library service. defaults supplies the databases
// used when a request names none. recorder may be nil.
func NewService(workspace Workspace, library Library, defaults Options, recorder reconcile.Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workspace: workspace,
		library:   library,
		defaults:  defaults,
		recorder:  recorder,
		logger:    logger,
	}
}

// Defaults returns the options used for empty fields.
func (s *Service) Defaults() Options {
	return s.defaults
}

func (s *Service) withDefaults(opts Options, database string) Options {
	if opts.Database == "" {
		opts.Database = database
	}
	if opts.CollectionsDatabase == "" {
		opts.CollectionsDatabase = s.defaults.CollectionsDatabase
	}
	if !opts.CreateMissingFields {
		opts.CreateMissingFields = s.defaults.CreateMissingFields
	}
	return opts
}

// SyncRefs runs the references sync.
func (s *Service) SyncRefs(ctx context.Context, opts Options, run reconcile.Options) (*reconcile.Report, error) {
	opts = s.withDefaults(opts, s.defaults.Database)
	run, l := s.prepare(run, "refs")
	sync := NewRefsSync(s.workspace, s.library, opts, l)
	_, report, err := reconcile.NewEngine(sync, l).Run(ctx, run)
	return s.finish(ctx, l, report, err)
}

// SyncCollections runs the collections sync. The collections database
// defaults to the one references link to.
func (s *Service) SyncCollections(ctx context.Context, opts Options, run reconcile.Options) (*reconcile.Report, error) {
	opts = s.withDefaults(opts, s.defaults.CollectionsDatabase)
	run, l := s.prepare(run, "collections")
	sync := NewCollectionsSync(s.workspace, s.library, opts, l)
	_, report, err := reconcile.NewEngine(sync, l).Run(ctx, run)
	return s.finish(ctx, l, report, err)
}

func (s *Service) prepare(run reconcile.Options, name string) (reconcile.Options, *zap.Logger) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	return run, logger.WithRun(s.logger, run.RunID).With(zap.String("sync", name))
}

func (s *Service) finish(ctx context.Context, l *zap.Logger, report *reconcile.Report, err error) (*reconcile.Report, error) {
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
	} else {
		l.Info("Sync finished",
			zap.Int("executed", report.Executed),
			zap.Int("creates", report.Summary.Creates),
			zap.Int("ignored", report.Summary.Ignored),
		)
	}

	if s.recorder != nil && report != nil {
		if recErr := s.recorder.Record(ctx, report, err); recErr != nil {
			l.Warn("Failed to record run", zap.Error(recErr))
		}
	}
	return report, err
}
