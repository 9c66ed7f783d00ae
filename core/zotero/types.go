package zotero

import (
	"bytes"
	"sort"
	"strings"
	"time"

	"refsync/core/utils"

	"github.com/goccy/go-json"
)

// ItemTypeNote is the type of standalone and child notes.
const ItemTypeNote = "note"

// Library identifies the library a record belongs to.
type Library struct {
	ID    int            `json:"id"`
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Links map[string]any `json:"links,omitempty"`
}

// Meta is the computed metadata returned next to every record.
type Meta struct {
	CreatedByUser  map[string]any `json:"createdByUser,omitempty"`
	ParsedDate     string         `json:"parsedDate,omitempty"`
	CreatorSummary string         `json:"creatorSummary,omitempty"`
	NumItems       int            `json:"numItems,omitempty"`
	NumCollections int            `json:"numCollections,omitempty"`
	NumChildren    int            `json:"numChildren,omitempty"`
}

// Tag is a label attached to an item.
type Tag struct {
	Tag  string `json:"tag"`
	Type int    `json:"type,omitempty"`
}

// Creator is an author, editor or other contributor.
type Creator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	// Name is used instead of first and last name for single-field creators.
	Name string `json:"name,omitempty"`
}

// DisplayName returns the last name, or the single-field name.
func (c Creator) DisplayName() string {
	if c.LastName != "" {
		return c.LastName
	}
	return c.Name
}

// ItemData holds the editable fields of an item. Fields without a dedicated
// member are kept in Properties under their API name.
type ItemData struct {
	Key              string         `json:"key"`
	Version          int            `json:"version"`
	ItemType         string         `json:"itemType"`
	Title            string         `json:"title,omitempty"`
	Note             string         `json:"note,omitempty"`
	Creators         []Creator      `json:"creators,omitempty"`
	Date             string         `json:"date,omitempty"`
	AbstractNote     string         `json:"abstractNote,omitempty"`
	URL              string         `json:"url,omitempty"`
	PublicationTitle string         `json:"publicationTitle,omitempty"`
	Tags             []Tag          `json:"tags,omitempty"`
	Collections      []string       `json:"collections,omitempty"`
	Relations        map[string]any `json:"relations,omitempty"`
	ParentItem       string         `json:"parentItem,omitempty"`
	DateAdded        time.Time      `json:"dateAdded"`
	DateModified     time.Time      `json:"dateModified"`

	Properties map[string]any `json:"-"`
}

var itemDataFields = []string{
	"key", "version", "itemType", "title", "note", "creators", "date", "abstractNote", "url",
	"publicationTitle", "tags", "collections", "relations", "parentItem", "dateAdded", "dateModified",
}

// UnmarshalJSON decodes the known fields and keeps every other field in Properties.
func (d *ItemData) UnmarshalJSON(data []byte) error {
	type alias ItemData
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, field := range itemDataFields {
		delete(raw, field)
	}

	*d = ItemData(known)
	if len(raw) > 0 {
		d.Properties = raw
	}
	return nil
}

// Get returns an extra field as text, or fallback when it is absent or null.
func (d *ItemData) Get(field, fallback string) string {
	v, ok := d.Properties[field]
	if !ok || v == nil {
		return fallback
	}
	return utils.ToString(v)
}

// GetInt returns an extra field as a number, 0 when absent or unparseable.
func (d *ItemData) GetInt(field string) int {
	return utils.ToInt(d.Properties[field])
}

// Item is a bibliographic record.
type Item struct {
	RecordKey     string         `json:"key"`
	RecordVersion int            `json:"version"`
	Library       Library        `json:"library"`
	Links         map[string]any `json:"links,omitempty"`
	Meta          Meta           `json:"meta"`
	Data          ItemData       `json:"data"`

	// Children holds attachments and notes by key once grouped.
	Children map[string]*Item `json:"-"`
}

func (i *Item) Key() string       { return i.RecordKey }
func (i *Item) Version() int      { return i.RecordVersion }
func (i *Item) ParentKey() string { return i.Data.ParentItem }

func (i *Item) AttachChild(child *Item) {
	if i.Children == nil {
		i.Children = make(map[string]*Item)
	}
	i.Children[child.Key()] = child
}

// ChildKeys returns the keys of the attached children, sorted.
func (i *Item) ChildKeys() []string {
	return sortedKeys(i.Children)
}

// Title returns the item title. Notes have no title and use their content.
func (i *Item) Title() string {
	if i.Data.Title == "" && i.Data.ItemType == ItemTypeNote {
		return i.Data.Note
	}
	return i.Data.Title
}

// Authors returns the creator summary computed by the API, falling back to
// the creators' last names.
func (i *Item) Authors() string {
	if i.Meta.CreatorSummary != "" {
		return i.Meta.CreatorSummary
	}

	names := make([]string, 0, len(i.Data.Creators))
	for _, c := range i.Data.Creators {
		if name := c.DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return names[0] + " et al."
	}
}

// Date returns the parsed yyyy-mm-dd date, or the date as entered.
func (i *Item) Date() string {
	if i.Meta.ParsedDate != "" {
		return i.Meta.ParsedDate
	}
	return i.Data.Date
}

// Year returns the year of the parsed date, "" when unknown.
func (i *Item) Year() string {
	year, _, _ := strings.Cut(i.Meta.ParsedDate, "-")
	return year
}

// TagNames returns the tag labels in API order.
func (i *Item) TagNames() []string {
	names := make([]string, 0, len(i.Data.Tags))
	for _, t := range i.Data.Tags {
		names = append(names, t.Tag)
	}
	return names
}

// ParentRef is a parent collection key. The API sends false for top-level
// collections.
type ParentRef string

func (p *ParentRef) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("false")) || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	var key string
	if err := json.Unmarshal(data, &key); err != nil {
		return err
	}
	*p = ParentRef(key)
	return nil
}

func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("false"), nil
	}
	return json.Marshal(string(p))
}

// CollectionData holds the editable fields of a collection.
type CollectionData struct {
	Key              string         `json:"key"`
	Version          int            `json:"version"`
	Name             string         `json:"name"`
	ParentCollection ParentRef      `json:"parentCollection"`
	Relations        map[string]any `json:"relations,omitempty"`
}

// Collection is a folder of items. Collections nest through ParentCollection.
type Collection struct {
	RecordKey     string         `json:"key"`
	RecordVersion int            `json:"version"`
	Library       Library        `json:"library"`
	Links         map[string]any `json:"links,omitempty"`
	Meta          Meta           `json:"meta"`
	Data          CollectionData `json:"data"`

	Children map[string]*Collection `json:"-"`
}

func (c *Collection) Key() string       { return c.RecordKey }
func (c *Collection) Version() int      { return c.RecordVersion }
func (c *Collection) ParentKey() string { return string(c.Data.ParentCollection) }
func (c *Collection) Title() string     { return c.Data.Name }

func (c *Collection) AttachChild(child *Collection) {
	if c.Children == nil {
		c.Children = make(map[string]*Collection)
	}
	c.Children[child.Key()] = child
}

// ChildKeys returns the keys of the subcollections, sorted.
func (c *Collection) ChildKeys() []string {
	return sortedKeys(c.Children)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
