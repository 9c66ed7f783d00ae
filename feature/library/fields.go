package library

import "refsync/core/notion"

// Property names written by the references sync.
const (
	FieldType            = "Type"
	FieldCiteKey         = "Cite Key"
	FieldTitle           = "Title"
	FieldAuthors         = "Authors"
	FieldPublicationDate = "Publication Date"
	FieldAbstract        = "Abstract"
	FieldURL             = "URL"
	FieldPublication     = "Publication"
	FieldTags            = "Tags"
	FieldCollections     = "Collections"
	FieldCollectionRefs  = "Collection Refs"
)

// Property names written by the collections sync.
const (
	FieldName   = "Name"
	FieldParent = "Parent"
)

func trackingDefs(s notion.Schema) notion.Schema {
	s[notion.FieldID] = notion.RichTextDef()
	s[notion.FieldSyncedAt] = notion.DateDef()
	s[notion.FieldVersion] = notion.NumberDef()
	s[notion.FieldModifiedAt] = notion.LastEditedTimeDef()
	return s
}

// RefsSchema returns the properties required in a references database.
// Collection Refs is only required when collectionsDatabase is set.
func RefsSchema(collectionsDatabase string) notion.Schema {
	s := trackingDefs(notion.Schema{
		FieldType:            notion.SelectDef(),
		FieldCiteKey:         notion.TitleDef(),
		FieldTitle:           notion.RichTextDef(),
		FieldAuthors:         notion.RichTextDef(),
		FieldPublicationDate: notion.RichTextDef(),
		FieldAbstract:        notion.RichTextDef(),
		FieldURL:             notion.URLDef(),
		FieldPublication:     notion.RichTextDef(),
		FieldTags:            notion.MultiSelectDef(),
		FieldCollections:     notion.MultiSelectDef(),
	})
	if collectionsDatabase != "" {
		s[FieldCollectionRefs] = notion.RelationDefTo(collectionsDatabase)
	}
	return s
}

// CollectionsSchema returns the properties required in a collections database.
func CollectionsSchema() notion.Schema {
	return trackingDefs(notion.Schema{
		FieldName:   notion.TitleDef(),
		FieldParent: notion.RelationDefTo(notion.RelationToSelf),
	})
}
