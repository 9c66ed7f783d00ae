package markdown

import (
	"context"
	"path"
	"strings"

	"refsync/core/notion"
	"refsync/core/storage"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// ContentType is the content type of exported objects.
const ContentType = "text/markdown; charset=utf-8"

// ExportResult lists the object keys written and removed by an export.
type ExportResult struct {
	Uploaded []string `json:"uploaded"`
	Removed  []string `json:"removed"`
}

// Exporter renders the pages of a database into a bucket.
type Exporter struct {
	workspace Workspace
	client    storage.Client
	bucket    string
	region    string
	logger    *zap.Logger
}

// NewExporter creates an exporter writing into bucket.
func NewExporter(workspace Workspace, client storage.Client, bucket, region string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{workspace: workspace, client: client, bucket: bucket, region: region, logger: logger}
}

// Export uploads one prefix/<title>.md object per page of the database.
// Markdown objects under prefix that no longer match a page are removed.
func (e *Exporter) Export(ctx context.Context, databaseID, prefix string) (*ExportResult, error) {
	if err := storage.EnsureBucket(ctx, e.client, e.bucket, e.region); err != nil {
		return nil, err
	}

	pages, err := e.workspace.QueryAll(ctx, databaseID, nil, nil)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Uploaded: []string{}, Removed: []string{}}
	written := mapset.NewThreadUnsafeSet[string]()
	for _, page := range pages {
		name := Sanitize(page.Title())
		if name == "" {
			continue
		}
		key := path.Join(prefix, name+Extension)
		if written.Contains(key) {
			e.logger.Warn("Skipping page with duplicate title", zap.String("page", page.ID), zap.String("key", key))
			continue
		}

		content, err := e.Render(ctx, page.ID)
		if err != nil {
			return result, err
		}
		if err := storage.PutText(ctx, e.client, e.bucket, key, content, ContentType); err != nil {
			return result, err
		}
		written.Add(key)
		result.Uploaded = append(result.Uploaded, key)
		e.logger.Debug("Exported page", zap.String("page", page.ID), zap.String("key", key))
	}

	listPrefix := prefix
	if listPrefix != "" && !strings.HasSuffix(listPrefix, "/") {
		listPrefix += "/"
	}
	existing, err := storage.ListKeys(ctx, e.client, e.bucket, listPrefix)
	if err != nil {
		return result, err
	}
	for _, key := range existing {
		if !strings.HasSuffix(key, Extension) || written.Contains(key) {
			continue
		}
		if err := storage.RemoveKey(ctx, e.client, e.bucket, key); err != nil {
			return result, err
		}
		result.Removed = append(result.Removed, key)
	}

	e.logger.Info("Export finished",
		zap.String("bucket", e.bucket),
		zap.Int("uploaded", len(result.Uploaded)),
		zap.Int("removed", len(result.Removed)),
	)
	return result, nil
}

// Render loads a page with its block tree and child databases and renders it.
func (e *Exporter) Render(ctx context.Context, pageID string) (string, error) {
	return RenderPage(ctx, e.workspace, pageID)
}

// RenderPage loads and renders one page.
func RenderPage(ctx context.Context, w Workspace, pageID string) (string, error) {
	tree, err := w.LoadPageTree(ctx, pageID, notion.TreeOptions{Databases: true})
	if err != nil {
		return "", err
	}
	return tree.RenderMarkdown()
}
