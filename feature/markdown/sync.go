package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"refsync/core/document"
	"refsync/core/notion"
	"refsync/core/reconcile"

	"go.uber.org/zap"
)

// ConflictPolicy settles pages changed on both sides.
type ConflictPolicy string

const (
	// ConflictSkip leaves the page untouched and reports it as a conflict.
	ConflictSkip ConflictPolicy = "skip"
	// ConflictLocal keeps the markdown file.
	ConflictLocal ConflictPolicy = "local"
	// ConflictRemote keeps the workspace page.
	ConflictRemote ConflictPolicy = "remote"
)

// ParseConflictPolicy validates a policy name. Empty means skip.
func ParseConflictPolicy(name string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(name); p {
	case "":
		return ConflictSkip, nil
	case ConflictSkip, ConflictLocal, ConflictRemote:
		return p, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q", name)
}

// mtimeOffset is how far before Synced At a written file's modification
// time is set, so that it does not count as a local change.
const mtimeOffset = 5 * time.Second

// Options configures a pages sync.
type Options struct {
	Database string
	Dir      string
	Force    bool
	Conflict ConflictPolicy
	// CreateMissingFields adds Synced At and Modified At when missing.
	CreateMissingFields bool
}

// PagesSync keeps a directory of markdown files and a database of pages in
// step. Either side may be edited between runs.
type PagesSync struct {
	workspace Workspace
	opts      Options
	logger    *zap.Logger
	now       func() time.Time

	titleField string
}

// NewPagesSync creates a pages sync.
func NewPagesSync(workspace Workspace, opts Options, logger *zap.Logger) *PagesSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Conflict == "" {
		opts.Conflict = ConflictSkip
	}
	return &PagesSync{workspace: workspace, opts: opts, logger: logger, now: time.Now}
}

// Name returns "markdown".
func (s *PagesSync) Name() string { return "markdown" }

// FetchA scans the directory, creating it when missing.
func (s *PagesSync) FetchA(_ context.Context) (map[string]*LocalPage, error) {
	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return nil, err
	}
	return ScanDir(s.opts.Dir)
}

// FetchB checks the schema and loads the database keyed by sanitized title.
func (s *PagesSync) FetchB(ctx context.Context) (map[string]*notion.Page, error) {
	if s.opts.Database == "" {
		return nil, fmt.Errorf("no pages database configured")
	}
	db, err := notion.EnsureSchema(ctx, s.workspace, s.opts.Database, PagesSchema(), s.opts.CreateMissingFields)
	if err != nil {
		return nil, err
	}
	for name, def := range db.Properties {
		if def.Type == notion.PropertyTitle {
			s.titleField = name
		}
	}

	pages, err := s.workspace.QueryAll(ctx, s.opts.Database, nil, []notion.Sort{
		{Property: notion.FieldModifiedAt, Direction: "descending"},
	})
	if err != nil {
		return nil, err
	}

	keyed := make(map[string]*notion.Page, len(pages))
	for _, page := range pages {
		key := Sanitize(page.Title())
		if key == "" {
			continue
		}
		if _, ok := keyed[key]; !ok {
			keyed[key] = page
		}
	}
	return keyed, nil
}

// Compare decides which side of a page wins.
func (s *PagesSync) Compare(_ string, a *LocalPage, b *notion.Page) reconcile.Action[*LocalPage, *notion.Page] {
	action := reconcile.Action[*LocalPage, *notion.Page]{Origin: a, Destination: b}
	switch {
	case a == nil:
		action.Type, action.Target, action.Reason = reconcile.ActionPush, reconcile.TargetA, "missing locally"
	case b == nil && a.Deleted:
		action.Type, action.Reason = reconcile.ActionIgnore, "deleted locally"
	case b == nil:
		action.Type, action.Target, action.Reason = reconcile.ActionPush, reconcile.TargetB, "missing remotely"
	case a.Deleted:
		action.Type, action.Target, action.Reason = reconcile.ActionDelete, reconcile.TargetB, "deleted locally"
	default:
		action.Type, action.Target, action.Reason = reconcile.DecideTwoWay(a.Modified(), reconcile.DestinationChanged(b), s.opts.Force)
	}
	return action
}

// ResolveMerge applies the conflict policy.
func (s *PagesSync) ResolveMerge(_ context.Context, action reconcile.Action[*LocalPage, *notion.Page]) (reconcile.Action[*LocalPage, *notion.Page], error) {
	switch s.opts.Conflict {
	case ConflictLocal:
		action.Type, action.Target, action.Reason = reconcile.ActionPush, reconcile.TargetB, "conflict resolved locally"
	case ConflictRemote:
		action.Type, action.Target, action.Reason = reconcile.ActionPush, reconcile.TargetA, "conflict resolved remotely"
	}
	return action, nil
}

// ExecuteA writes the page to its markdown file.
func (s *PagesSync) ExecuteA(ctx context.Context, action reconcile.Action[*LocalPage, *notion.Page]) error {
	if action.Type != reconcile.ActionPush {
		return nil
	}
	return s.pull(ctx, action.Destination, action.Origin)
}

// ExecuteB uploads the file content into the page, or archives the page of a
// deleted file.
func (s *PagesSync) ExecuteB(ctx context.Context, action reconcile.Action[*LocalPage, *notion.Page]) error {
	switch action.Type {
	case reconcile.ActionDelete:
		if _, err := s.workspace.ArchivePage(ctx, action.Destination.ID); err != nil {
			return err
		}
		s.logger.Info("Archived page", zap.String("page", action.Destination.ID), zap.String("file", action.Origin.Path))
		return nil
	case reconcile.ActionPush:
		page, err := s.push(ctx, action.Origin, action.Destination)
		if err != nil {
			return err
		}
		return s.pull(ctx, page, action.Origin)
	}
	return nil
}

func (s *PagesSync) push(ctx context.Context, local *LocalPage, page *notion.Page) (*notion.Page, error) {
	content, err := os.ReadFile(local.Path)
	if err != nil {
		return nil, err
	}
	parsed := Parse(content)
	body := parsed.Body
	if parsed.Title != "" && Sanitize(parsed.Title) != local.Name {
		// the page is titled by file name; keep a differing H1 as content
		body = append([]document.Node{&document.Heading{Level: 1, Text: document.Plain(parsed.Title)}}, body...)
	}
	blocks, err := notion.FromNodes(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", local.Path, err)
	}

	if page == nil {
		// the file name is the join key, not the H1
		page, err = s.workspace.CreatePage(ctx, notion.DatabaseParent(s.opts.Database), map[string]notion.Property{
			s.titleField: notion.AsTitle(local.Name),
		}, nil)
		if err != nil {
			return nil, err
		}
	}

	if err := s.workspace.ReplaceChildren(ctx, page.ID, blocks); err != nil {
		return nil, err
	}
	s.logger.Info("Uploaded page", zap.String("page", page.ID), zap.String("file", local.Path), zap.Int("blocks", len(blocks)))
	return page, nil
}

// pull stamps Synced At on the page and rewrites the local file from it. The
// file's modification time is set just before the stamp.
func (s *PagesSync) pull(ctx context.Context, page *notion.Page, local *LocalPage) error {
	syncedAt := s.now()
	stamp := map[string]notion.Property{notion.FieldSyncedAt: notion.AsDate(syncedAt)}
	if _, err := s.workspace.UpdatePage(ctx, page.ID, stamp); err != nil {
		return err
	}

	tree, err := s.workspace.LoadPageTree(ctx, page.ID, notion.TreeOptions{Databases: true})
	if err != nil {
		return err
	}
	tree.ExtendProperties(stamp)

	content, err := tree.RenderMarkdown()
	if err != nil {
		return err
	}

	path := filepath.Join(s.opts.Dir, Sanitize(tree.Title())+Extension)
	if local != nil && !local.Deleted {
		path = local.Path
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	mtime := syncedAt.Add(-mtimeOffset)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		return err
	}

	s.logger.Info("Wrote page", zap.String("page", page.ID), zap.String("file", path))
	return nil
}
