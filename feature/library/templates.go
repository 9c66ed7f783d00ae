package library

import (
	"context"
	"fmt"

	"refsync/core/notion"
)

// Template names accepted by Templates.Create.
const (
	TemplateRefs        = "refs"
	TemplateCollections = "collections"
)

// Templates creates empty databases holding the schema a sync requires.
type Templates struct {
	workspace Workspace
}

// NewTemplates creates a template factory.
func NewTemplates(workspace Workspace) *Templates {
	return &Templates{workspace: workspace}
}

// Create builds the named template under parentPageID. Self relations are
// added in a second update once the database id is known.
func (t *Templates) Create(ctx context.Context, name, parentPageID, collectionsDatabase string) (*notion.Database, error) {
	var schema notion.Schema
	title := ""
	switch name {
	case TemplateRefs:
		schema, title = RefsSchema(collectionsDatabase), "References"
	case TemplateCollections:
		schema, title = CollectionsSchema(), "Collections"
	default:
		return nil, fmt.Errorf("unknown template %q", name)
	}

	initial, deferred := notion.Schema{}, notion.Schema{}
	for field, def := range schema {
		if def.Type == notion.PropertyRelation && def.Relation != nil && def.Relation.DatabaseID == notion.RelationToSelf {
			deferred[field] = def
			continue
		}
		initial[field] = def
	}

	db, err := t.workspace.CreateDatabase(ctx, parentPageID, title, initial)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s database: %w", name, err)
	}
	if len(deferred) == 0 {
		return db, nil
	}
	return notion.EnsureSchema(ctx, t.workspace, db.ID, deferred, true)
}
