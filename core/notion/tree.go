package notion

import (
	"context"

	"refsync/core/document"
)

// TreeOptions controls what LoadPageTree fetches besides the blocks.
type TreeOptions struct {
	// Databases loads the schema and rows of child databases so they can be
	// rendered as tables.
	Databases bool
}

// LoadPageTree fetches a page with its whole block tree.
func (c *Client) LoadPageTree(ctx context.Context, pageID string, opts TreeOptions) (*Page, error) {
	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	children, err := c.loadChildren(ctx, pageID, opts)
	if err != nil {
		return nil, err
	}
	page.Children = children
	return page, nil
}

func (c *Client) loadChildren(ctx context.Context, blockID string, opts TreeOptions) ([]*Block, error) {
	blocks, err := c.AllBlockChildren(ctx, blockID)
	if err != nil {
		return nil, err
	}

	for _, b := range blocks {
		switch {
		case b.Type == string(document.KindChildDatabase):
			if !opts.Databases {
				continue
			}
			if b.Database, err = c.GetDatabase(ctx, b.ID); err != nil {
				return nil, err
			}
			rows, err := c.QueryAll(ctx, b.ID, nil, nil)
			if err != nil {
				return nil, err
			}
			b.Rows = append([]*Page{}, rows...)
		case b.Type == string(document.KindChildPage):
			// nested pages are referenced, not inlined
		case b.HasChildren:
			if b.Children, err = c.loadChildren(ctx, b.ID, opts); err != nil {
				return nil, err
			}
		}
	}
	return blocks, nil
}

// Document converts a loaded page into a renderable document. Property values
// are flattened to markdown and the title property is left out of the table.
func (p *Page) Document() (*document.Page, error) {
	nodes, err := ToNodes(p.Children)
	if err != nil {
		return nil, err
	}

	doc := &document.Page{Title: p.Title(), Children: nodes}
	for _, name := range p.PropertyNames() {
		doc.Properties = append(doc.Properties, document.Property{
			Name:  name,
			Value: p.Properties[name].Markdown(),
		})
	}
	return doc, nil
}

// RenderMarkdown renders a loaded page as markdown.
func (p *Page) RenderMarkdown() (string, error) {
	doc, err := p.Document()
	if err != nil {
		return "", err
	}
	return document.RenderPage(doc)
}
