package library

import (
	"context"

	"refsync/core/entity"
	"refsync/core/notion"
	"refsync/core/reconcile"
	"refsync/core/zotero"

	"go.uber.org/zap"
)

// CollectionsSync mirrors the collection tree into the collections database.
type CollectionsSync struct {
	oneWay
	library Library

	// pageIDs maps collection keys to the id of their page. Filled from the
	// existing pages and extended after every push so that children pushed
	// later can reference their parent.
	pageIDs map[string]string
}

// NewCollectionsSync creates the collections sync.
func NewCollectionsSync(workspace Workspace, library Library, opts Options, logger *zap.Logger) *CollectionsSync {
	return &CollectionsSync{
		oneWay:  newOneWay(workspace, opts, CollectionsSchema(), logger),
		library: library,
		pageIDs: map[string]string{},
	}
}

// Name returns "collections".
func (s *CollectionsSync) Name() string { return "collections" }

// FetchA loads every collection, nested ones included at the top level.
func (s *CollectionsSync) FetchA(ctx context.Context) (map[string]*zotero.Collection, error) {
	collections, err := s.library.AllCollectionsGrouped(ctx, false)
	if err != nil {
		return nil, err
	}
	return entity.Index(collections), nil
}

// FetchB loads the collections database.
func (s *CollectionsSync) FetchB(ctx context.Context) (map[string]*notion.Page, error) {
	return s.fetchPages(ctx)
}

// Preprocess records the existing pages and orders keys parents first.
func (s *CollectionsSync) Preprocess(_ context.Context, itemsA map[string]*zotero.Collection, itemsB map[string]*notion.Page, keys []string) ([]string, error) {
	s.pageIDs = make(map[string]string, len(itemsB))
	for key := range itemsA {
		if page, ok := itemsB[key]; ok {
			s.pageIDs[key] = page.ID
		}
	}

	return reconcile.TopoSort(keys, func(key string) []string {
		c, ok := itemsA[key]
		if !ok {
			return nil
		}
		return c.ChildKeys()
	})
}

// Compare applies the one-way version policy.
func (s *CollectionsSync) Compare(_ string, a *zotero.Collection, b *notion.Page) reconcile.Action[*zotero.Collection, *notion.Page] {
	return reconcile.OneWayByVersion(a, b, s.opts.Force)
}

// ExecuteB pushes or archives a collection page.
func (s *CollectionsSync) ExecuteB(ctx context.Context, action reconcile.Action[*zotero.Collection, *notion.Page]) error {
	switch action.Type {
	case reconcile.ActionPush:
		page, err := s.upsert(ctx, action.Destination, s.Properties(action.Origin))
		if err != nil {
			return err
		}
		s.pageIDs[action.Origin.Key()] = page.ID
	case reconcile.ActionDelete:
		return s.archive(ctx, action.Destination)
	}
	return nil
}

// Properties returns the page properties written for c.
func (s *CollectionsSync) Properties(c *zotero.Collection) map[string]notion.Property {
	props := s.tracking(c.Key(), c.Version())
	props[FieldName] = notion.AsTitle(c.Title())

	var parents []string
	if parent := c.ParentKey(); parent != "" {
		if id, ok := s.pageIDs[parent]; ok {
			parents = append(parents, id)
		} else {
			s.logger.Warn("Parent collection has no page", zap.String("key", c.Key()), zap.String("parent", parent))
		}
	}
	props[FieldParent] = notion.AsRelation(parents)
	return props
}
