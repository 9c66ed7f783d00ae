package notion

import (
	"time"

	"refsync/core/document"

	"github.com/goccy/go-json"
)

// PropertyType is the type tag of a property value or definition.
type PropertyType string

const (
	PropertyTitle          PropertyType = "title"
	PropertyRichText       PropertyType = "rich_text"
	PropertyNumber         PropertyType = "number"
	PropertySelect         PropertyType = "select"
	PropertyMultiSelect    PropertyType = "multi_select"
	PropertyDate           PropertyType = "date"
	PropertyRelation       PropertyType = "relation"
	PropertyCheckbox       PropertyType = "checkbox"
	PropertyURL            PropertyType = "url"
	PropertyLastEditedTime PropertyType = "last_edited_time"
	PropertyCreatedTime    PropertyType = "created_time"
)

// Parent locates a page or database.
type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// DatabaseParent returns the parent reference of a database row.
func DatabaseParent(id string) *Parent {
	return &Parent{Type: "database_id", DatabaseID: id}
}

// PageParent returns the parent reference of a nested page or database.
func PageParent(id string) *Parent {
	return &Parent{Type: "page_id", PageID: id}
}

// Link is a hyperlink target.
type Link struct {
	URL string `json:"url"`
}

// TextContent is the payload of a text rich text object.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// EquationContent is the payload of an equation rich text object.
type EquationContent struct {
	Expression string `json:"expression"`
}

// RichText is one styled span as exchanged with the API.
type RichText struct {
	Type        string                `json:"type"`
	PlainText   string                `json:"plain_text,omitempty"`
	Href        *string               `json:"href,omitempty"`
	Annotations *document.Annotations `json:"annotations,omitempty"`
	Text        *TextContent          `json:"text,omitempty"`
	Equation    *EquationContent      `json:"equation,omitempty"`
	Mention     map[string]any        `json:"mention,omitempty"`
}

// SelectOption is a select or multi-select choice.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue is a date or date range.
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// Relation references a page of the related database.
type Relation struct {
	ID string `json:"id"`
}

// Page is a database row or standalone page.
type Page struct {
	Object         string              `json:"object,omitempty"`
	ID             string              `json:"id,omitempty"`
	Parent         *Parent             `json:"parent,omitempty"`
	URL            string              `json:"url,omitempty"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Archived       bool                `json:"archived"`
	Properties     map[string]Property `json:"properties"`

	// Children holds block content when loaded through LoadPageTree.
	Children []*Block `json:"-"`
}

// Database is a collection of pages sharing a property schema.
type Database struct {
	Object         string                 `json:"object,omitempty"`
	ID             string                 `json:"id,omitempty"`
	Parent         *Parent                `json:"parent,omitempty"`
	URL            string                 `json:"url,omitempty"`
	Title          []RichText             `json:"title"`
	LastEditedTime time.Time              `json:"last_edited_time"`
	Properties     map[string]PropertyDef `json:"properties"`
}

// Name returns the plain text title of the database.
func (d *Database) Name() string {
	return document.PlainText(ToRuns(d.Title))
}

// Sort orders a database query.
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

// QueryArgs is the body of a database query.
type QueryArgs struct {
	Filter      any    `json:"filter,omitempty"`
	Sorts       []Sort `json:"sorts,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// QueryResult is one page of query results.
type QueryResult struct {
	Object     string  `json:"object"`
	Results    []*Page `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// BlockList is one page of block children.
type BlockList struct {
	Object     string   `json:"object"`
	Results    []*Block `json:"results"`
	NextCursor *string  `json:"next_cursor"`
	HasMore    bool     `json:"has_more"`
}

// Block is a content block. Payload holds the raw type-specific object.
type Block struct {
	Object         string    `json:"object,omitempty"`
	ID             string    `json:"id,omitempty"`
	Type           string    `json:"type"`
	HasChildren    bool      `json:"has_children"`
	Archived       bool      `json:"archived"`
	CreatedTime    time.Time `json:"created_time"`
	LastEditedTime time.Time `json:"last_edited_time"`

	Payload json.RawMessage `json:"-"`

	// Children, Database and Rows are filled by LoadPageTree.
	Children []*Block `json:"-"`
	Database *Database `json:"-"`
	Rows     []*Page   `json:"-"`
}

// UnmarshalJSON decodes the common fields and keeps the payload under the
// block's own type key.
func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	var common alias
	if err := json.Unmarshal(data, &common); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Block(common)
	b.Payload = raw[b.Type]
	return nil
}

// MarshalJSON encodes the block in the shape accepted by the append endpoint.
func (b Block) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"object": "block",
		"type":   b.Type,
	}
	if len(b.Payload) > 0 {
		out[b.Type] = b.Payload
	} else {
		out[b.Type] = map[string]any{}
	}
	return json.Marshal(out)
}

// blockPayload is the union of the payload fields used by supported blocks.
type blockPayload struct {
	RichText   []RichText `json:"rich_text,omitempty"`
	Text       []RichText `json:"text,omitempty"`
	Checked    *bool      `json:"checked,omitempty"`
	Language   string     `json:"language,omitempty"`
	Caption    []RichText `json:"caption,omitempty"`
	URL        string     `json:"url,omitempty"`
	Type       string     `json:"type,omitempty"`
	External   *Link      `json:"external,omitempty"`
	File       *Link      `json:"file,omitempty"`
	Name       string     `json:"name,omitempty"`
	Expression string     `json:"expression,omitempty"`
	Title      string     `json:"title,omitempty"`
	Children   []*Block   `json:"children,omitempty"`
}

func (p *blockPayload) runs() []RichText {
	if len(p.RichText) > 0 {
		return p.RichText
	}
	return p.Text
}

func (p *blockPayload) fileURL() string {
	switch {
	case p.External != nil:
		return p.External.URL
	case p.File != nil:
		return p.File.URL
	}
	return p.URL
}
