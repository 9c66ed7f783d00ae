package document

import (
	"fmt"
	"strings"
)

// DefaultColor is the color of unstyled text.
const DefaultColor = "default"

// Annotations are the style flags of a run.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// Run is a span of inline text sharing one set of annotations.
type Run struct {
	Text string
	// Equation marks Text as an inline math expression.
	Equation    bool
	Href        string
	Annotations Annotations
}

// Plain returns a single unstyled run, or none for empty text.
func Plain(text string) []Run {
	if text == "" {
		return nil
	}
	return []Run{{Text: text}}
}

// PlainText concatenates the raw text of runs.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// InlineMarkdown renders runs back to back.
func InlineMarkdown(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Markdown())
	}
	return b.String()
}

// Markdown renders the run. The raw text is resolved first, then wrapped as a
// link, then wrapped in style markers in the order bold, italic,
// strikethrough, underline, code, color.
func (r Run) Markdown() string {
	out := r.Text
	if r.Equation {
		out = "$" + out + "$"
	}
	if r.Href != "" {
		out = fmt.Sprintf("[%s](%s)", out, r.Href)
	}

	a := r.Annotations
	if a.Bold {
		out = "**" + out + "**"
	}
	if a.Italic {
		out = "_" + out + "_"
	}
	if a.Strikethrough {
		out = "~~" + out + "~~"
	}
	if a.Underline {
		out = "<u>" + out + "</u>"
	}
	if a.Code {
		out = "`" + out + "`"
	}
	if a.Color != "" && a.Color != DefaultColor {
		out = fmt.Sprintf(`<span style="%s">%s</span>`, colorStyle(a.Color), out)
	}
	return out
}

func colorStyle(color string) string {
	if name, ok := strings.CutSuffix(color, "_background"); ok {
		return "background-color: " + name
	}
	return "color: " + color
}
