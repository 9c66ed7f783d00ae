package document

import (
	"fmt"
	"html"
	"strings"

	"refsync/core/errors"
)

// UnsupportedMarker is emitted in place of blocks of unknown type.
const UnsupportedMarker = "<!-- unsupported block -->"

const embedTemplate = `<figure>
  <iframe
    height='265'
    title='%[2]s' src='%[1]s'
    frameborder='no' allowtransparency='true'
    allowfullscreen='true' style='width: 100%%;'></iframe>
  <figcaption>%[2]s</figcaption>
</figure>`

const imageTemplate = `<figure>
  <img src="%s" alt="%s" style="width:100%%">
  <figcaption>%s</figcaption>
</figure>`

// Context is the state threaded through a render. It is passed by value so
// nested renders never observe changes made by their siblings.
type Context struct {
	// Depth is the nesting level of the node being rendered.
	Depth int
	// Counter is the ordinal of the node within its run of countable siblings.
	Counter int
}

// NewContext returns the context for a top-level render.
func NewContext() Context {
	return Context{Counter: 1}
}

// Nested returns the context for the children of a node.
func (c Context) Nested() Context {
	return Context{Depth: c.Depth + 1, Counter: 1}
}

// Render renders a single node at the top level.
func Render(n Node) (string, error) {
	return RenderNode(n, NewContext())
}

// RenderNodes renders sibling nodes joined by newlines.
func RenderNodes(nodes []Node) (string, error) {
	return RenderChain(nodes, NewContext(), "\n")
}

// RenderChain renders siblings in order. The counter restarts at 1 before any
// node that is not countable and advances after every countable one, so
// numbering continues across consecutive list items only.
func RenderChain(nodes []Node, ctx Context, sep string) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		_, countable := n.(Countable)
		if !countable {
			ctx.Counter = 1
		}

		out, err := RenderNode(n, ctx)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)

		if countable {
			ctx.Counter++
		}
	}
	return strings.Join(parts, sep), nil
}

// RenderNode renders n and its children under ctx.
func RenderNode(n Node, ctx Context) (string, error) {
	switch n := n.(type) {
	case *Paragraph:
		return withChildren(InlineMarkdown(n.Text), n, ctx, "  ")
	case *BulletedItem:
		return withChildren("* "+InlineMarkdown(n.Text), n, ctx, "    ")
	case *NumberedItem:
		return withChildren(fmt.Sprintf("%d. %s", ctx.Counter, InlineMarkdown(n.Text)), n, ctx, "    ")
	case *Todo:
		box := "- [ ] "
		if n.Checked {
			box = "- [x] "
		}
		return withChildren(box+InlineMarkdown(n.Text), n, ctx, "    ")
	case *Toggle:
		return withChildren("* "+InlineMarkdown(n.Text), n, ctx, "    ")
	case *Quote:
		return withChildren("> "+InlineMarkdown(n.Text), n, ctx, "> ")
	case *Heading:
		if n.Level < 1 || n.Level > 3 {
			return "", &errors.UnsupportedNodeKindError{Kind: string(n.Kind())}
		}
		return strings.Repeat("#", n.Level) + " " + InlineMarkdown(n.Text), nil
	case *Divider:
		return "---", nil
	case *Embed:
		return embed(n.URL, n.Caption), nil
	case *Video:
		return embed(n.URL, n.Caption), nil
	case *PDF:
		return embed(n.URL, n.Caption), nil
	case *Bookmark:
		return link(n.URL, PlainText(n.Caption)), nil
	case *Image:
		return image(n.URL, PlainText(n.Caption)), nil
	case *File:
		name := n.Name
		if name == "" {
			name = PlainText(n.Caption)
		}
		return link(n.URL, name), nil
	case *Code:
		return "```" + n.Language + "\n" + PlainText(n.Text) + "\n```", nil
	case *Equation:
		return "$$\n" + n.Expression + "\n$$", nil
	case *ChildPage:
		if n.URL == "" {
			return "**" + n.Title + "**", nil
		}
		return link(n.URL, n.Title), nil
	case *ChildDatabase:
		if n.Table == nil {
			return fmt.Sprintf("**%s** (database)", n.Title), nil
		}
		return RenderTable(n.Table), nil
	case *Unsupported:
		return UnsupportedMarker, nil
	default:
		return "", &errors.UnsupportedNodeKindError{Kind: string(kindOf(n))}
	}
}

// withChildren appends the rendered children of c below own, each line
// prefixed with indent.
func withChildren(own string, c HasChildren, ctx Context, indent string) (string, error) {
	children := c.Children()
	if len(children) == 0 {
		return own, nil
	}

	nested, err := RenderChain(children, ctx.Nested(), "\n")
	if err != nil {
		return "", err
	}
	return own + "\n" + indentLines(nested, indent), nil
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

func link(url, alt string) string {
	if alt == "" {
		alt = url
	}
	return fmt.Sprintf("[%s](%s)", alt, url)
}

func image(url, caption string) string {
	if caption == "" {
		return "!" + link(url, "")
	}
	escaped := html.EscapeString(caption)
	return fmt.Sprintf(imageTemplate, url, escaped, escaped)
}

func embed(url string, caption []Run) string {
	title := PlainText(caption)
	if title == "" {
		title = url
	}
	return fmt.Sprintf(embedTemplate, url, html.EscapeString(title))
}

// RenderTable renders a markdown table. Cells are escaped so that pipes and
// line breaks do not split them.
func RenderTable(t *Table) string {
	var b strings.Builder
	b.WriteString(tableRow(t.Columns))
	b.WriteString("\n")

	sep := make([]string, len(t.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString(tableRow(sep))

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		copy(cells, row)
		b.WriteString("\n")
		b.WriteString(tableRow(cells))
	}
	return b.String()
}

func tableRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = escapeCell(cell)
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}

func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "|", `\|`)
	cell = strings.ReplaceAll(cell, "\r\n", "<br>")
	return strings.ReplaceAll(cell, "\n", "<br>")
}
