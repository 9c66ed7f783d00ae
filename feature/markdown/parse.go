package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"refsync/core/document"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

var inlineEquation = regexp.MustCompile(`\$([^$\n]+)\$`)

// Parsed is an exported page read back from markdown.
type Parsed struct {
	Title      string
	Properties []document.Property
	Body       []document.Node
}

// Property returns the value of the named row of the property table.
func (p *Parsed) Property(name string) (string, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// Parse reads markdown in the layout written by document.RenderPage: a level
// one title, an optional Name/Value property table, then the body. Files that
// do not start with a title are read as body only.
func Parse(source []byte) *Parsed {
	root := parser.Parse(text.NewReader(source))
	c := &converter{source: source}
	parsed := &Parsed{}

	n := root.FirstChild()
	if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
		parsed.Title = c.plain(h)
		n = n.NextSibling()
		if t, ok := n.(*extast.Table); ok && c.isPropertyTable(t) {
			parsed.Properties = c.properties(t)
			n = n.NextSibling()
		}
	}

	for ; n != nil; n = n.NextSibling() {
		parsed.Body = append(parsed.Body, c.block(n)...)
	}
	return parsed
}

type converter struct {
	source []byte
}

func (c *converter) isPropertyTable(t *extast.Table) bool {
	header, ok := t.FirstChild().(*extast.TableHeader)
	if !ok {
		return false
	}
	cells := c.cells(header)
	return len(cells) == 2 && cells[0] == "Name" && cells[1] == "Value"
}

func (c *converter) properties(t *extast.Table) []document.Property {
	var props []document.Property
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		if _, ok := row.(*extast.TableRow); !ok {
			continue
		}
		cells := c.cells(row)
		if len(cells) < 2 {
			continue
		}
		props = append(props, document.Property{Name: cells[0], Value: cells[1]})
	}
	return props
}

func (c *converter) cells(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, strings.TrimSpace(c.plain(cell)))
	}
	return cells
}

// block converts one block level node. Nodes without a document counterpart
// yield nothing.
func (c *converter) block(n ast.Node) []document.Node {
	switch n := n.(type) {
	case *ast.Heading:
		level := min(n.Level, 3)
		return []document.Node{&document.Heading{Level: level, Text: c.runs(n)}}
	case *ast.Paragraph:
		return []document.Node{c.paragraph(n)}
	case *ast.TextBlock:
		return []document.Node{&document.Paragraph{Text: c.runs(n)}}
	case *ast.List:
		return c.list(n)
	case *ast.FencedCodeBlock:
		return []document.Node{&document.Code{
			Language: string(n.Language(c.source)),
			Text:     document.Plain(c.lines(n)),
		}}
	case *ast.CodeBlock:
		return []document.Node{&document.Code{Text: document.Plain(c.lines(n))}}
	case *ast.Blockquote:
		return []document.Node{c.quote(n)}
	case *ast.ThematicBreak:
		return []document.Node{&document.Divider{}}
	case *extast.Table:
		var rows []document.Node
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			rows = append(rows, &document.Paragraph{Text: document.Plain(strings.Join(c.cells(row), " | "))})
		}
		return rows
	}
	return nil
}

func (c *converter) paragraph(p *ast.Paragraph) document.Node {
	raw := strings.TrimSpace(c.lines(p))
	if len(raw) > 4 && strings.HasPrefix(raw, "$$") && strings.HasSuffix(raw, "$$") {
		return &document.Equation{Expression: strings.TrimSpace(raw[2 : len(raw)-2])}
	}
	if img, ok := p.FirstChild().(*ast.Image); ok && img.NextSibling() == nil {
		return &document.Image{URL: string(img.Destination), Caption: document.Plain(c.plain(img))}
	}
	return &document.Paragraph{Text: c.runs(p)}
}

func (c *converter) quote(q *ast.Blockquote) document.Node {
	quote := &document.Quote{}
	first := true
	for n := q.FirstChild(); n != nil; n = n.NextSibling() {
		if p, ok := n.(*ast.Paragraph); ok && first {
			quote.Text = c.runs(p)
			first = false
			continue
		}
		quote.AppendChild(c.block(n)...)
	}
	return quote
}

func (c *converter) list(l *ast.List) []document.Node {
	var items []document.Node
	for n := l.FirstChild(); n != nil; n = n.NextSibling() {
		li, ok := n.(*ast.ListItem)
		if !ok {
			continue
		}
		items = append(items, c.item(li, l.IsOrdered()))
	}
	return items
}

func (c *converter) item(li *ast.ListItem, ordered bool) document.Node {
	var runs []document.Run
	var checkbox *extast.TaskCheckBox
	var children []document.Node

	for n := li.FirstChild(); n != nil; n = n.NextSibling() {
		if n == li.FirstChild() && (n.Kind() == ast.KindTextBlock || n.Kind() == ast.KindParagraph) {
			if box, ok := n.FirstChild().(*extast.TaskCheckBox); ok {
				checkbox = box
			}
			runs = c.runs(n)
			continue
		}
		children = append(children, c.block(n)...)
	}

	switch {
	case checkbox != nil:
		todo := &document.Todo{Text: trimLeading(runs), Checked: checkbox.IsChecked}
		todo.AppendChild(children...)
		return todo
	case ordered:
		item := &document.NumberedItem{Text: runs}
		item.AppendChild(children...)
		return item
	default:
		item := &document.BulletedItem{Text: runs}
		item.AppendChild(children...)
		return item
	}
}

// lines returns the raw source lines of a block.
func (c *converter) lines(n ast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// plain concatenates the text below n without styling.
func (c *converter) plain(n ast.Node) string {
	return document.PlainText(c.runs(n))
}

// runs converts the inline children of n.
func (c *converter) runs(n ast.Node) []document.Run {
	var b runBuilder
	c.inline(n, document.Annotations{}, "", &b)
	return b.runs
}

func (c *converter) inline(parent ast.Node, style document.Annotations, href string, b *runBuilder) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			s := string(n.Segment.Value(c.source))
			if n.HardLineBreak() {
				s += "\n"
			} else if n.SoftLineBreak() {
				s += " "
			}
			b.text(s, style, href)
		case *ast.String:
			b.text(string(n.Value), style, href)
		case *ast.CodeSpan:
			code := style
			code.Code = true
			b.add(document.Run{Text: c.plain(n), Href: href, Annotations: code})
		case *ast.Emphasis:
			emphasis := style
			if n.Level >= 2 {
				emphasis.Bold = true
			} else {
				emphasis.Italic = true
			}
			c.inline(n, emphasis, href, b)
		case *extast.Strikethrough:
			strike := style
			strike.Strikethrough = true
			c.inline(n, strike, href, b)
		case *ast.Link:
			c.inline(n, style, string(n.Destination), b)
		case *ast.AutoLink:
			url := string(n.URL(c.source))
			b.add(document.Run{Text: url, Href: url, Annotations: style})
		case *ast.Image:
			b.add(document.Run{Text: c.plain(n), Href: string(n.Destination), Annotations: style})
		case *extast.TaskCheckBox, *ast.RawHTML:
		default:
			c.inline(n, style, href, b)
		}
	}
}

// runBuilder merges adjacent runs sharing style and link.
type runBuilder struct {
	runs []document.Run
}

// text adds s, splitting out inline $math$ spans.
func (b *runBuilder) text(s string, style document.Annotations, href string) {
	last := 0
	for _, m := range inlineEquation.FindAllStringSubmatchIndex(s, -1) {
		b.add(document.Run{Text: s[last:m[0]], Href: href, Annotations: style})
		b.add(document.Run{Text: s[m[2]:m[3]], Equation: true, Annotations: style})
		last = m[1]
	}
	b.add(document.Run{Text: s[last:], Href: href, Annotations: style})
}

func (b *runBuilder) add(r document.Run) {
	if r.Text == "" {
		return
	}
	if n := len(b.runs); n > 0 {
		prev := &b.runs[n-1]
		if !prev.Equation && !r.Equation && prev.Href == r.Href && prev.Annotations == r.Annotations {
			prev.Text += r.Text
			return
		}
	}
	b.runs = append(b.runs, r)
}

func trimLeading(runs []document.Run) []document.Run {
	if len(runs) > 0 {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " ")
		if runs[0].Text == "" {
			runs = runs[1:]
		}
	}
	return runs
}
