package markdown

import (
	"context"

	"refsync/core/notion"
)

// Workspace is the destination API used by the pages sync and the exporter.
// *notion.Client implements it.
type Workspace interface {
	notion.SchemaEditor
	QueryAll(ctx context.Context, databaseID string, filter any, sorts []notion.Sort) ([]*notion.Page, error)
	LoadPageTree(ctx context.Context, pageID string, opts notion.TreeOptions) (*notion.Page, error)
	CreatePage(ctx context.Context, parent *notion.Parent, props map[string]notion.Property, children []*notion.Block) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, props map[string]notion.Property) (*notion.Page, error)
	ArchivePage(ctx context.Context, pageID string) (*notion.Page, error)
	ReplaceChildren(ctx context.Context, blockID string, children []*notion.Block) error
}

var _ Workspace = (*notion.Client)(nil)

// PagesSchema holds the properties the pages sync relies on besides the title.
func PagesSchema() notion.Schema {
	return notion.Schema{
		notion.FieldSyncedAt:   notion.DateDef(),
		notion.FieldModifiedAt: notion.LastEditedTimeDef(),
	}
}
