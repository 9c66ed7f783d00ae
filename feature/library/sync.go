package library

import (
	"context"
	"fmt"
	"time"

	"refsync/core/notion"

	"go.uber.org/zap"
)

// Options configures a one-way sync.
type Options struct {
	// Database is the destination database id.
	Database string
	// CollectionsDatabase links references to collection pages when set.
	// Only used by the references sync.
	CollectionsDatabase string
	// Force pushes every record regardless of versions.
	Force bool
	// CreateMissingFields adds missing schema properties instead of failing.
	CreateMissingFields bool
}

// oneWay holds the destination half shared by both syncs.
type oneWay struct {
	workspace Workspace
	opts      Options
	schema    notion.Schema
	logger    *zap.Logger
	now       func() time.Time
}

func newOneWay(workspace Workspace, opts Options, schema notion.Schema, logger *zap.Logger) oneWay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return oneWay{
		workspace: workspace,
		opts:      opts,
		schema:    schema,
		logger:    logger,
		now:       time.Now,
	}
}

// fetchPages checks the schema, then loads the database keyed by ID.
func (s *oneWay) fetchPages(ctx context.Context) (map[string]*notion.Page, error) {
	if s.opts.Database == "" {
		return nil, fmt.Errorf("no destination database configured")
	}
	if _, err := notion.EnsureSchema(ctx, s.workspace, s.opts.Database, s.schema, s.opts.CreateMissingFields); err != nil {
		return nil, err
	}
	return queryKeyed(ctx, s.workspace, s.opts.Database, s.logger)
}

// queryKeyed loads every page of a database keyed by its ID property. Pages
// are read most recently modified first; when two pages share a key the
// newer one wins. Pages without a key are not managed and are skipped.
func queryKeyed(ctx context.Context, w Workspace, databaseID string, logger *zap.Logger) (map[string]*notion.Page, error) {
	pages, err := w.QueryAll(ctx, databaseID, nil, []notion.Sort{
		{Property: notion.FieldModifiedAt, Direction: "descending"},
	})
	if err != nil {
		return nil, err
	}

	keyed := make(map[string]*notion.Page, len(pages))
	for _, page := range pages {
		key := page.Key()
		if key == "" {
			continue
		}
		if _, ok := keyed[key]; ok {
			logger.Warn("Duplicate key in database", zap.String("database", databaseID), zap.String("key", key), zap.String("page", page.ID))
			continue
		}
		keyed[key] = page
	}
	return keyed, nil
}

// tracking returns the bookkeeping properties written with every push.
func (s *oneWay) tracking(key string, version int) map[string]notion.Property {
	return map[string]notion.Property{
		notion.FieldID:       notion.AsRichText(key),
		notion.FieldSyncedAt: notion.AsDate(s.now()),
		notion.FieldVersion:  notion.AsNumber(float64(version)),
	}
}

// upsert writes props onto page, creating it in the database when page is nil.
func (s *oneWay) upsert(ctx context.Context, page *notion.Page, props map[string]notion.Property) (*notion.Page, error) {
	pageID := ""
	if page != nil {
		pageID = page.ID
	}
	updated, err := s.workspace.UpsertPage(ctx, notion.DatabaseParent(s.opts.Database), pageID, props)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Updated page", zap.String("page", updated.ID), zap.String("title", updated.Title()))
	return updated, nil
}

func (s *oneWay) archive(ctx context.Context, page *notion.Page) error {
	if page == nil {
		return nil
	}
	if _, err := s.workspace.ArchivePage(ctx, page.ID); err != nil {
		return err
	}
	s.logger.Info("Archived page", zap.String("page", page.ID), zap.String("title", page.Title()))
	return nil
}
