package history

import (
	"context"
	"fmt"
	"strings"

	"refsync/core/database"
	"refsync/core/reconcile"

	"gorm.io/gorm"
)

// Repository stores runs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the runs table and verifies its columns.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}

	missing, err := database.MissingColumns(r.db.WithContext(ctx), TableName, Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", TableName, strings.Join(missing, ", "))
	}
	return nil
}

// FromReport converts a report into a row. runErr is the error the run
// stopped with, if any.
func FromReport(report *reconcile.Report, runErr error) Run {
	s := report.Summary
	run := Run{
		ID:         report.RunID,
		Sync:       report.Sync,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		DryRun:     report.DryRun,
		Pushed:     s.PushA + s.PushB,
		Created:    s.Creates,
		Deleted:    s.DeleteA + s.DeleteB,
		Merged:     s.Merges,
		Ignored:    s.Ignored,
		Executed:   report.Executed,
		Conflicts:  len(report.Conflicts),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	return run
}

// Record stores the outcome of a run. It implements reconcile.Recorder.
func (r *Repository) Record(ctx context.Context, report *reconcile.Report, runErr error) error {
	run := FromReport(report, runErr)
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the latest runs, newest first. A limit of zero or less
// returns every run.
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	q := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

var _ reconcile.Recorder = (*Repository)(nil)
