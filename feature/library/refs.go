package library

import (
	"context"
	"sort"

	"refsync/core/entity"
	"refsync/core/notion"
	"refsync/core/reconcile"
	"refsync/core/zotero"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// RefsSync mirrors top-level library items into the references database.
type RefsSync struct {
	oneWay
	library Library

	collections     map[string]*zotero.Collection
	ancestors       map[string]mapset.Set[string]
	collectionPages map[string]*notion.Page
}

// NewRefsSync creates the references sync.
func NewRefsSync(workspace Workspace, library Library, opts Options, logger *zap.Logger) *RefsSync {
	return &RefsSync{
		oneWay:  newOneWay(workspace, opts, RefsSchema(opts.CollectionsDatabase), logger),
		library: library,
	}
}

// Name returns "refs".
func (s *RefsSync) Name() string { return "refs" }

// FetchA loads the items with their attachments and notes folded in.
func (s *RefsSync) FetchA(ctx context.Context) (map[string]*zotero.Item, error) {
	items, err := s.library.AllItemsGrouped(ctx, true)
	if err != nil {
		return nil, err
	}
	return entity.Index(items), nil
}

// FetchB loads the references database.
func (s *RefsSync) FetchB(ctx context.Context) (map[string]*notion.Page, error) {
	return s.fetchPages(ctx)
}

// Preprocess loads the collection lookups used to fill the Collections and
// Collection Refs properties. The dispatch order is left unchanged.
func (s *RefsSync) Preprocess(ctx context.Context, _ map[string]*zotero.Item, _ map[string]*notion.Page, keys []string) ([]string, error) {
	collections, err := s.library.AllCollectionsGrouped(ctx, false)
	if err != nil {
		return nil, err
	}
	s.collections = entity.Index(collections)
	s.ancestors, err = entity.AncestorSets(collections)
	if err != nil {
		return nil, err
	}

	s.collectionPages = map[string]*notion.Page{}
	if s.opts.CollectionsDatabase != "" {
		s.collectionPages, err = queryKeyed(ctx, s.workspace, s.opts.CollectionsDatabase, s.logger)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("Loaded collections", zap.Int("zotero", len(s.collections)), zap.Int("notion", len(s.collectionPages)))
	return keys, nil
}

// Compare applies the one-way version policy.
func (s *RefsSync) Compare(_ string, a *zotero.Item, b *notion.Page) reconcile.Action[*zotero.Item, *notion.Page] {
	return reconcile.OneWayByVersion(a, b, s.opts.Force)
}

// ExecuteB pushes or archives a reference page.
func (s *RefsSync) ExecuteB(ctx context.Context, action reconcile.Action[*zotero.Item, *notion.Page]) error {
	switch action.Type {
	case reconcile.ActionPush:
		_, err := s.upsert(ctx, action.Destination, s.Properties(action.Origin))
		return err
	case reconcile.ActionDelete:
		return s.archive(ctx, action.Destination)
	}
	return nil
}

// Properties returns the page properties written for item.
func (s *RefsSync) Properties(item *zotero.Item) map[string]notion.Property {
	props := s.tracking(item.Key(), item.Version())
	props[FieldType] = notion.AsSelect(item.Data.ItemType)
	props[FieldCiteKey] = notion.AsTitle(zotero.GenerateCiteKey(item))
	props[FieldTitle] = notion.AsRichText(item.Title())
	props[FieldAuthors] = notion.AsRichText(item.Authors())
	props[FieldPublicationDate] = notion.AsRichText(item.Date())
	props[FieldAbstract] = notion.AsRichText(item.Data.AbstractNote)
	props[FieldURL] = notion.AsURL(item.Data.URL)
	props[FieldPublication] = notion.AsRichText(item.Data.PublicationTitle)
	props[FieldTags] = notion.AsMultiSelect(item.TagNames())
	props[FieldCollections] = notion.AsMultiSelect(s.collectionNames(item))
	if s.opts.CollectionsDatabase != "" {
		props[FieldCollectionRefs] = notion.AsRelation(s.collectionRefs(item))
	}
	return props
}

// collectionNames returns the names of the direct and inherited collections
// of item, sorted.
func (s *RefsSync) collectionNames(item *zotero.Item) []string {
	keys := mapset.NewThreadUnsafeSet[string]()
	for _, key := range item.Data.Collections {
		keys = keys.Union(entity.Lineage(s.ancestors, key))
	}

	names := make([]string, 0, keys.Cardinality())
	for _, key := range keys.ToSlice() {
		if c, ok := s.collections[key]; ok {
			names = append(names, c.Title())
		}
	}
	sort.Strings(names)
	return names
}

// collectionRefs links only the direct collections that already have a page.
func (s *RefsSync) collectionRefs(item *zotero.Item) []string {
	ids := make([]string, 0, len(item.Data.Collections))
	for _, key := range item.Data.Collections {
		if page, ok := s.collectionPages[key]; ok {
			ids = append(ids, page.ID)
		}
	}
	return ids
}
