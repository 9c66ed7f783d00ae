package library

import (
	"context"

	"refsync/core/notion"
	"refsync/core/zotero"
)

// Workspace is the destination API used by the syncs. *notion.Client
// implements it.
type Workspace interface {
	notion.SchemaEditor
	QueryAll(ctx context.Context, databaseID string, filter any, sorts []notion.Sort) ([]*notion.Page, error)
	UpsertPage(ctx context.Context, parent *notion.Parent, pageID string, props map[string]notion.Property) (*notion.Page, error)
	ArchivePage(ctx context.Context, pageID string) (*notion.Page, error)
	CreateDatabase(ctx context.Context, parentPageID, title string, schema notion.Schema) (*notion.Database, error)
}

// Library is the origin API used by the syncs. *zotero.Client implements it.
type Library interface {
	AllItemsGrouped(ctx context.Context, deleteChildren bool) ([]*zotero.Item, error)
	AllCollectionsGrouped(ctx context.Context, deleteChildren bool) ([]*zotero.Collection, error)
}

var (
	_ Workspace = (*notion.Client)(nil)
	_ Library   = (*zotero.Client)(nil)
)
