package document

import "strings"

// Property is one row of a page's property table.
type Property struct {
	Name  string
	Value string
}

// Page is a titled document with a property table and body content.
type Page struct {
	Title      string
	Properties []Property
	Children   []Node
}

// Property returns the value of the named property.
func (p *Page) Property(name string) (string, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// SetProperty replaces the named property or appends it.
func (p *Page) SetProperty(name, value string) {
	for i := range p.Properties {
		if p.Properties[i].Name == name {
			p.Properties[i].Value = value
			return
		}
	}
	p.Properties = append(p.Properties, Property{Name: name, Value: value})
}

// RenderPage renders the title as a level one heading, followed by the
// property table and the body.
func RenderPage(p *Page) (string, error) {
	parts := []string{"# " + p.Title + "\n"}

	if len(p.Properties) > 0 {
		table := &Table{Columns: []string{"Name", "Value"}}
		for _, prop := range p.Properties {
			table.Rows = append(table.Rows, []string{prop.Name, prop.Value})
		}
		parts = append(parts, RenderTable(table)+"\n")
	}

	if len(p.Children) > 0 {
		body, err := RenderChain(p.Children, NewContext(), "\n\n")
		if err != nil {
			return "", err
		}
		parts = append(parts, body)
	}

	return strings.Join(parts, "\n") + "\n", nil
}
