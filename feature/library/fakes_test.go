package library

import (
	"context"
	"fmt"

	"refsync/core/entity"
	"refsync/core/notion"
	"refsync/core/zotero"
)

type upsert struct {
	database string
	created  bool
	page     *notion.Page
}

type fakeWorkspace struct {
	databases map[string]*notion.Database
	pages     map[string][]*notion.Page
	upserts   []upsert
	archived  []string
	updates   []notion.Schema
	nextID    int
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{
		databases: map[string]*notion.Database{},
		pages:     map[string][]*notion.Page{},
	}
}

// addDatabase registers a database holding every property of schema.
func (w *fakeWorkspace) addDatabase(id string, schema notion.Schema, pages ...*notion.Page) {
	props := map[string]notion.PropertyDef{}
	for name, def := range schema.Resolve(id) {
		props[name] = def
	}
	w.databases[id] = &notion.Database{ID: id, Properties: props}
	w.pages[id] = append(w.pages[id], pages...)
}

func (w *fakeWorkspace) GetDatabase(_ context.Context, id string) (*notion.Database, error) {
	db, ok := w.databases[id]
	if !ok {
		return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: id}
	}
	return db, nil
}

func (w *fakeWorkspace) UpdateDatabase(_ context.Context, id string, schema notion.Schema) (*notion.Database, error) {
	db := w.databases[id]
	w.updates = append(w.updates, schema)
	for name, def := range schema {
		if def.Name != "" {
			delete(db.Properties, name)
			name = def.Name
		}
		db.Properties[name] = def
	}
	return db, nil
}

func (w *fakeWorkspace) CreateDatabase(_ context.Context, _ string, _ string, schema notion.Schema) (*notion.Database, error) {
	w.nextID++
	id := fmt.Sprintf("db-%d", w.nextID)
	props := map[string]notion.PropertyDef{}
	for name, def := range schema {
		props[name] = def
	}
	w.databases[id] = &notion.Database{ID: id, Properties: props}
	return w.databases[id], nil
}

func (w *fakeWorkspace) QueryAll(_ context.Context, id string, _ any, _ []notion.Sort) ([]*notion.Page, error) {
	if _, ok := w.databases[id]; !ok {
		return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: id}
	}
	return w.pages[id], nil
}

func (w *fakeWorkspace) UpsertPage(_ context.Context, parent *notion.Parent, pageID string, props map[string]notion.Property) (*notion.Page, error) {
	if pageID == "" {
		w.nextID++
		page := &notion.Page{ID: fmt.Sprintf("page-%d", w.nextID), Parent: parent}
		page.ExtendProperties(props)
		w.pages[parent.DatabaseID] = append(w.pages[parent.DatabaseID], page)
		w.upserts = append(w.upserts, upsert{database: parent.DatabaseID, created: true, page: page})
		return page, nil
	}

	for _, page := range w.pages[parent.DatabaseID] {
		if page.ID == pageID {
			page.ExtendProperties(props)
			w.upserts = append(w.upserts, upsert{database: parent.DatabaseID, page: page})
			return page, nil
		}
	}
	return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: pageID}
}

func (w *fakeWorkspace) ArchivePage(_ context.Context, pageID string) (*notion.Page, error) {
	w.archived = append(w.archived, pageID)
	return &notion.Page{ID: pageID, Archived: true}, nil
}

type fakeLibrary struct {
	items       []*zotero.Item
	collections []*zotero.Collection
	err         error
}

func (l *fakeLibrary) AllItemsGrouped(context.Context, bool) ([]*zotero.Item, error) {
	return l.items, l.err
}

func (l *fakeLibrary) AllCollectionsGrouped(_ context.Context, deleteChildren bool) ([]*zotero.Collection, error) {
	if l.err != nil {
		return nil, l.err
	}
	fresh := make([]*zotero.Collection, 0, len(l.collections))
	for _, c := range l.collections {
		cp := *c
		cp.Children = nil
		fresh = append(fresh, &cp)
	}
	return entity.Group(fresh, deleteChildren), nil
}

func item(key string, version int, title string, collections ...string) *zotero.Item {
	return &zotero.Item{
		RecordKey:     key,
		RecordVersion: version,
		Meta:          zotero.Meta{CreatorSummary: "Knuth", ParsedDate: "1968-01-01"},
		Data: zotero.ItemData{
			Key:         key,
			Version:     version,
			ItemType:    "book",
			Title:       title,
			Collections: collections,
		},
	}
}

func collection(key string, version int, name, parent string) *zotero.Collection {
	return &zotero.Collection{
		RecordKey:     key,
		RecordVersion: version,
		Data: zotero.CollectionData{
			Key:              key,
			Version:          version,
			Name:             name,
			ParentCollection: zotero.ParentRef(parent),
		},
	}
}

func page(id, key string, version int) *notion.Page {
	return &notion.Page{
		ID: id,
		Properties: map[string]notion.Property{
			notion.FieldID:      notion.AsRichText(key),
			notion.FieldVersion: notion.AsNumber(float64(version)),
		},
	}
}
