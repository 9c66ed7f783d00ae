package document

import (
	"fmt"

	"refsync/core/errors"
)

// Kind is the block type tag of a node.
type Kind string

const (
	KindParagraph     Kind = "paragraph"
	KindHeading1      Kind = "heading_1"
	KindHeading2      Kind = "heading_2"
	KindHeading3      Kind = "heading_3"
	KindBulleted      Kind = "bulleted_list_item"
	KindNumbered      Kind = "numbered_list_item"
	KindTodo          Kind = "to_do"
	KindToggle        Kind = "toggle"
	KindQuote         Kind = "quote"
	KindDivider       Kind = "divider"
	KindEmbed         Kind = "embed"
	KindBookmark      Kind = "bookmark"
	KindImage         Kind = "image"
	KindVideo         Kind = "video"
	KindPDF           Kind = "pdf"
	KindFile          Kind = "file"
	KindCode          Kind = "code"
	KindEquation      Kind = "equation"
	KindChildPage     Kind = "child_page"
	KindChildDatabase Kind = "child_database"
	KindUnsupported   Kind = "unsupported"
)

// Node is a block of a document tree. The set of implementations is closed.
type Node interface {
	Kind() Kind
	node()
}

// HasChildren is implemented by the container kinds only.
type HasChildren interface {
	Node
	Children() []Node
	AppendChild(children ...Node)
}

// Countable marks kinds whose siblings continue a shared ordinal sequence.
type Countable interface {
	Node
	countable()
}

// Children returns the nested nodes of n, failing for leaf kinds.
func Children(n Node) ([]Node, error) {
	c, ok := n.(HasChildren)
	if !ok {
		return nil, &errors.ChildrenUnsupportedError{Kind: string(kindOf(n))}
	}
	return c.Children(), nil
}

// AppendChildren attaches children to n, failing for leaf kinds.
func AppendChildren(n Node, children ...Node) error {
	c, ok := n.(HasChildren)
	if !ok {
		return &errors.ChildrenUnsupportedError{Kind: string(kindOf(n))}
	}
	c.AppendChild(children...)
	return nil
}

func kindOf(n Node) Kind {
	if n == nil {
		return "nil"
	}
	return n.Kind()
}

type container struct {
	children []Node
}

func (c *container) Children() []Node { return c.children }

func (c *container) AppendChild(children ...Node) {
	c.children = append(c.children, children...)
}

// Paragraph is a run of inline text.
type Paragraph struct {
	container
	Text []Run
}

// BulletedItem is an unordered list entry.
type BulletedItem struct {
	container
	Text []Run
}

// NumberedItem is an ordered list entry.
type NumberedItem struct {
	container
	Text []Run
}

// Todo is a checklist entry.
type Todo struct {
	container
	Text    []Run
	Checked bool
}

// Toggle is a collapsible list entry.
type Toggle struct {
	container
	Text []Run
}

// Quote is a block quotation.
type Quote struct {
	container
	Text []Run
}

// Heading is a section title. Level is 1 to 3.
type Heading struct {
	Level int
	Text  []Run
}

// Divider is a horizontal rule.
type Divider struct{}

// Embed is an iframe-rendered external resource.
type Embed struct {
	URL     string
	Caption []Run
}

// Bookmark is a link preview.
type Bookmark struct {
	URL     string
	Caption []Run
}

// Image is an image file.
type Image struct {
	URL     string
	Caption []Run
}

// Video is an embedded video.
type Video struct {
	URL     string
	Caption []Run
}

// PDF is an embedded document.
type PDF struct {
	URL     string
	Caption []Run
}

// File is a downloadable attachment.
type File struct {
	URL     string
	Name    string
	Caption []Run
}

// Code is a fenced code block.
type Code struct {
	Language string
	Text     []Run
}

// Equation is a display math block.
type Equation struct {
	Expression string
}

// ChildPage references a nested page.
type ChildPage struct {
	Title string
	URL   string
}

// ChildDatabase is a nested collection. Table is nil unless both its schema
// and rows were loaded.
type ChildDatabase struct {
	Title string
	Table *Table
}

// Table holds the rendered cells of a collection.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Unsupported stands in for a block type the decoder does not know.
type Unsupported struct {
	Type string
}

func (*Paragraph) Kind() Kind     { return KindParagraph }
func (*BulletedItem) Kind() Kind  { return KindBulleted }
func (*NumberedItem) Kind() Kind  { return KindNumbered }
func (*Todo) Kind() Kind          { return KindTodo }
func (*Toggle) Kind() Kind        { return KindToggle }
func (*Quote) Kind() Kind         { return KindQuote }
func (*Divider) Kind() Kind       { return KindDivider }
func (*Embed) Kind() Kind         { return KindEmbed }
func (*Bookmark) Kind() Kind      { return KindBookmark }
func (*Image) Kind() Kind         { return KindImage }
func (*Video) Kind() Kind         { return KindVideo }
func (*PDF) Kind() Kind           { return KindPDF }
func (*File) Kind() Kind          { return KindFile }
func (*Code) Kind() Kind          { return KindCode }
func (*Equation) Kind() Kind      { return KindEquation }
func (*ChildPage) Kind() Kind     { return KindChildPage }
func (*ChildDatabase) Kind() Kind { return KindChildDatabase }
func (*Unsupported) Kind() Kind   { return KindUnsupported }

func (h *Heading) Kind() Kind { return Kind(fmt.Sprintf("heading_%d", h.Level)) }

func (*Paragraph) node()     {}
func (*BulletedItem) node()  {}
func (*NumberedItem) node()  {}
func (*Todo) node()          {}
func (*Toggle) node()        {}
func (*Quote) node()         {}
func (*Heading) node()       {}
func (*Divider) node()       {}
func (*Embed) node()         {}
func (*Bookmark) node()      {}
func (*Image) node()         {}
func (*Video) node()         {}
func (*PDF) node()           {}
func (*File) node()          {}
func (*Code) node()          {}
func (*Equation) node()      {}
func (*ChildPage) node()     {}
func (*ChildDatabase) node() {}
func (*Unsupported) node()   {}

func (*NumberedItem) countable() {}
