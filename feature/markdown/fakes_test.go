package markdown

import (
	"context"
	"fmt"
	"time"

	"refsync/core/notion"
)

type fakeWorkspace struct {
	database *notion.Database
	pages    []*notion.Page
	children map[string][]*notion.Block
	archived []string
	replaced []string
	// editedAt is the last edited time set by writes.
	editedAt time.Time
	nextID   int
}

func newFakeWorkspace(editedAt time.Time, pages ...*notion.Page) *fakeWorkspace {
	return &fakeWorkspace{
		database: &notion.Database{ID: "db", Properties: map[string]notion.PropertyDef{
			"Name":                 notion.TitleDef(),
			notion.FieldSyncedAt:   notion.DateDef(),
			notion.FieldModifiedAt: notion.LastEditedTimeDef(),
		}},
		pages:    pages,
		children: map[string][]*notion.Block{},
		editedAt: editedAt,
	}
}

func (w *fakeWorkspace) find(id string) (*notion.Page, error) {
	for _, p := range w.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: id}
}

func (w *fakeWorkspace) GetDatabase(context.Context, string) (*notion.Database, error) {
	return w.database, nil
}

func (w *fakeWorkspace) UpdateDatabase(_ context.Context, _ string, schema notion.Schema) (*notion.Database, error) {
	for name, def := range schema {
		w.database.Properties[name] = def
	}
	return w.database, nil
}

func (w *fakeWorkspace) QueryAll(context.Context, string, any, []notion.Sort) ([]*notion.Page, error) {
	return w.pages, nil
}

func (w *fakeWorkspace) LoadPageTree(_ context.Context, id string, _ notion.TreeOptions) (*notion.Page, error) {
	p, err := w.find(id)
	if err != nil {
		return nil, err
	}
	tree := *p
	tree.Properties = map[string]notion.Property{}
	tree.ExtendProperties(p.Properties)
	tree.Children = w.children[id]
	return &tree, nil
}

func (w *fakeWorkspace) CreatePage(_ context.Context, parent *notion.Parent, props map[string]notion.Property, _ []*notion.Block) (*notion.Page, error) {
	w.nextID++
	p := &notion.Page{ID: fmt.Sprintf("page-%d", w.nextID), Parent: parent, LastEditedTime: w.editedAt}
	p.ExtendProperties(props)
	w.pages = append(w.pages, p)
	return p, nil
}

func (w *fakeWorkspace) UpdatePage(_ context.Context, id string, props map[string]notion.Property) (*notion.Page, error) {
	p, err := w.find(id)
	if err != nil {
		return nil, err
	}
	p.ExtendProperties(props)
	p.LastEditedTime = w.editedAt
	return p, nil
}

func (w *fakeWorkspace) ArchivePage(_ context.Context, id string) (*notion.Page, error) {
	w.archived = append(w.archived, id)
	return &notion.Page{ID: id, Archived: true}, nil
}

func (w *fakeWorkspace) ReplaceChildren(_ context.Context, id string, children []*notion.Block) error {
	if _, err := w.find(id); err != nil {
		return err
	}
	w.replaced = append(w.replaced, id)
	w.children[id] = children
	return nil
}

// remotePage builds a database row. A zero syncedAt leaves Synced At unset.
func remotePage(id, title string, syncedAt, editedAt time.Time) *notion.Page {
	p := &notion.Page{
		ID:             id,
		LastEditedTime: editedAt,
		Properties:     map[string]notion.Property{"Name": notion.AsTitle(title)},
	}
	if !syncedAt.IsZero() {
		p.Properties[notion.FieldSyncedAt] = notion.AsDate(syncedAt)
	}
	return p
}
