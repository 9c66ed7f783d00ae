package notion

import (
	"refsync/core/document"
	"refsync/core/errors"

	"github.com/goccy/go-json"
)

// ToNode decodes a block and its loaded children into a document node.
// Unknown block types become document.Unsupported. A known type without a
// payload cannot be decoded and yields an UnsupportedNodeKindError.
func ToNode(b *Block) (document.Node, error) {
	kind := document.Kind(b.Type)
	if !knownKind(kind) {
		return &document.Unsupported{Type: b.Type}, nil
	}
	if len(b.Payload) == 0 && kind != document.KindDivider {
		return nil, &errors.UnsupportedNodeKindError{Kind: b.Type}
	}

	var p blockPayload
	if len(b.Payload) > 0 {
		if err := json.Unmarshal(b.Payload, &p); err != nil {
			return nil, err
		}
	}
	text := ToRuns(p.runs())
	caption := ToRuns(p.Caption)

	var n document.Node
	switch kind {
	case document.KindParagraph:
		n = &document.Paragraph{Text: text}
	case document.KindBulleted:
		n = &document.BulletedItem{Text: text}
	case document.KindNumbered:
		n = &document.NumberedItem{Text: text}
	case document.KindTodo:
		n = &document.Todo{Text: text, Checked: p.Checked != nil && *p.Checked}
	case document.KindToggle:
		n = &document.Toggle{Text: text}
	case document.KindQuote:
		n = &document.Quote{Text: text}
	case document.KindHeading1:
		n = &document.Heading{Level: 1, Text: text}
	case document.KindHeading2:
		n = &document.Heading{Level: 2, Text: text}
	case document.KindHeading3:
		n = &document.Heading{Level: 3, Text: text}
	case document.KindDivider:
		n = &document.Divider{}
	case document.KindEmbed:
		n = &document.Embed{URL: p.fileURL(), Caption: caption}
	case document.KindBookmark:
		n = &document.Bookmark{URL: p.fileURL(), Caption: caption}
	case document.KindImage:
		n = &document.Image{URL: p.fileURL(), Caption: caption}
	case document.KindVideo:
		n = &document.Video{URL: p.fileURL(), Caption: caption}
	case document.KindPDF:
		n = &document.PDF{URL: p.fileURL(), Caption: caption}
	case document.KindFile:
		n = &document.File{URL: p.fileURL(), Name: p.Name, Caption: caption}
	case document.KindCode:
		n = &document.Code{Language: p.Language, Text: text}
	case document.KindEquation:
		n = &document.Equation{Expression: p.Expression}
	case document.KindChildPage:
		n = &document.ChildPage{Title: p.Title}
	case document.KindChildDatabase:
		n = &document.ChildDatabase{Title: p.Title, Table: databaseTable(b.Database, b.Rows)}
	}

	children := b.Children
	if len(children) == 0 {
		children = p.Children
	}
	if parent, ok := n.(document.HasChildren); ok {
		for _, child := range children {
			c, err := ToNode(child)
			if err != nil {
				return nil, err
			}
			parent.AppendChild(c)
		}
	}
	return n, nil
}

// ToNodes decodes a list of sibling blocks.
func ToNodes(blocks []*Block) ([]document.Node, error) {
	nodes := make([]document.Node, 0, len(blocks))
	for _, b := range blocks {
		n, err := ToNode(b)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func knownKind(kind document.Kind) bool {
	switch kind {
	case document.KindParagraph, document.KindHeading1, document.KindHeading2, document.KindHeading3,
		document.KindBulleted, document.KindNumbered, document.KindTodo, document.KindToggle,
		document.KindQuote, document.KindDivider, document.KindEmbed, document.KindBookmark,
		document.KindImage, document.KindVideo, document.KindPDF, document.KindFile,
		document.KindCode, document.KindEquation, document.KindChildPage, document.KindChildDatabase:
		return true
	}
	return false
}

// databaseTable lays out the rows of a child database. The title column comes
// first, the rest follow in alphabetical order.
func databaseTable(db *Database, rows []*Page) *document.Table {
	if db == nil || rows == nil {
		return nil
	}

	title := ""
	var others []string
	for _, name := range Schema(db.Properties).Names() {
		if db.Properties[name].Type == PropertyTitle {
			title = name
			continue
		}
		others = append(others, name)
	}
	columns := others
	if title != "" {
		columns = append([]string{title}, others...)
	}

	table := &document.Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, name := range columns {
			cells[i] = row.Properties[name].Markdown()
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// FromNode encodes a document node as a block for the append endpoint.
// Child pages and databases cannot be created through blocks.
func FromNode(n document.Node) (*Block, error) {
	var p blockPayload
	switch v := n.(type) {
	case *document.Paragraph:
		p.RichText = FromRuns(v.Text)
	case *document.BulletedItem:
		p.RichText = FromRuns(v.Text)
	case *document.NumberedItem:
		p.RichText = FromRuns(v.Text)
	case *document.Todo:
		checked := v.Checked
		p.RichText = FromRuns(v.Text)
		p.Checked = &checked
	case *document.Toggle:
		p.RichText = FromRuns(v.Text)
	case *document.Quote:
		p.RichText = FromRuns(v.Text)
	case *document.Heading:
		if v.Level < 1 || v.Level > 3 {
			return nil, &errors.UnsupportedNodeKindError{Kind: string(v.Kind())}
		}
		p.RichText = FromRuns(v.Text)
	case *document.Divider:
	case *document.Embed:
		p.URL = v.URL
		p.Caption = FromRuns(v.Caption)
	case *document.Bookmark:
		p.URL = v.URL
		p.Caption = FromRuns(v.Caption)
	case *document.Image:
		p.Type, p.External, p.Caption = "external", &Link{URL: v.URL}, FromRuns(v.Caption)
	case *document.Video:
		p.Type, p.External, p.Caption = "external", &Link{URL: v.URL}, FromRuns(v.Caption)
	case *document.PDF:
		p.Type, p.External, p.Caption = "external", &Link{URL: v.URL}, FromRuns(v.Caption)
	case *document.File:
		p.Type, p.External, p.Caption = "external", &Link{URL: v.URL}, FromRuns(v.Caption)
	case *document.Code:
		p.Language = v.Language
		if p.Language == "" {
			p.Language = "plain text"
		}
		p.RichText = FromRuns(v.Text)
	case *document.Equation:
		p.Expression = v.Expression
	default:
		kind := "nil"
		if n != nil {
			kind = string(n.Kind())
		}
		return nil, &errors.UnsupportedNodeKindError{Kind: kind}
	}

	if parent, ok := n.(document.HasChildren); ok {
		for _, child := range parent.Children() {
			b, err := FromNode(child)
			if err != nil {
				return nil, err
			}
			p.Children = append(p.Children, b)
		}
	}

	payload, err := json.Marshal(&p)
	if err != nil {
		return nil, err
	}
	return &Block{Type: string(n.Kind()), Payload: payload}, nil
}

// FromNodes encodes a list of sibling nodes.
func FromNodes(nodes []document.Node) ([]*Block, error) {
	blocks := make([]*Block, 0, len(nodes))
	for _, n := range nodes {
		b, err := FromNode(n)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
