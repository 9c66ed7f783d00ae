package notion

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"refsync/core/document"

	"github.com/goccy/go-json"
)

// MaxTextLength is the longest rich text content the API accepts.
const MaxTextLength = 2000

// Property is a typed property value of a page.
type Property struct {
	ID             string         `json:"id,omitempty"`
	Type           PropertyType   `json:"type"`
	Title          []RichText     `json:"title,omitempty"`
	RichText       []RichText     `json:"rich_text,omitempty"`
	Number         *float64       `json:"number,omitempty"`
	Select         *SelectOption  `json:"select,omitempty"`
	MultiSelect    []SelectOption `json:"multi_select,omitempty"`
	Date           *DateValue     `json:"date,omitempty"`
	Relation       []Relation     `json:"relation,omitempty"`
	Checkbox       *bool          `json:"checkbox,omitempty"`
	URL            *string        `json:"url,omitempty"`
	LastEditedTime *time.Time     `json:"last_edited_time,omitempty"`
	CreatedTime    *time.Time     `json:"created_time,omitempty"`
}

// MarshalJSON writes only the payload of the active type. Empty lists and
// nulls are sent explicitly so that updates clear the stored value.
func (p Property) MarshalJSON() ([]byte, error) {
	var payload any
	switch p.Type {
	case PropertyTitle:
		payload = nonNil(p.Title)
	case PropertyRichText:
		payload = nonNil(p.RichText)
	case PropertyNumber:
		payload = p.Number
	case PropertySelect:
		payload = p.Select
	case PropertyMultiSelect:
		payload = nonNil(p.MultiSelect)
	case PropertyDate:
		payload = p.Date
	case PropertyRelation:
		payload = nonNil(p.Relation)
	case PropertyCheckbox:
		payload = p.Checkbox != nil && *p.Checkbox
	case PropertyURL:
		payload = p.URL
	case PropertyLastEditedTime:
		payload = p.LastEditedTime
	case PropertyCreatedTime:
		payload = p.CreatedTime
	}
	return json.Marshal(map[string]any{
		"type":         p.Type,
		string(p.Type): payload,
	})
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

// AsTitle builds a title value.
func AsTitle(text string) Property {
	return Property{Type: PropertyTitle, Title: FromRuns(document.Plain(Truncate(text)))}
}

// AsRichText builds a text value truncated to MaxTextLength characters.
func AsRichText(text string) Property {
	return Property{Type: PropertyRichText, RichText: FromRuns(document.Plain(Truncate(text)))}
}

// AsNumber builds a number value.
func AsNumber(n float64) Property {
	return Property{Type: PropertyNumber, Number: &n}
}

// AsSelect builds a single choice value. An empty name clears the choice.
func AsSelect(name string) Property {
	p := Property{Type: PropertySelect}
	if name != "" {
		p.Select = &SelectOption{Name: sanitizeOption(name)}
	}
	return p
}

// AsMultiSelect builds a multiple choice value from distinct names.
func AsMultiSelect(names []string) Property {
	seen := make(map[string]struct{}, len(names))
	options := make([]SelectOption, 0, len(names))
	for _, name := range names {
		name = sanitizeOption(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		options = append(options, SelectOption{Name: name})
	}
	return Property{Type: PropertyMultiSelect, MultiSelect: options}
}

// AsDate builds a date value holding t with its time of day.
func AsDate(t time.Time) Property {
	return Property{Type: PropertyDate, Date: &DateValue{Start: t.Format(time.RFC3339)}}
}

// AsDay builds a date value from a yyyy-mm-dd string. Empty input clears the date.
func AsDay(day string) Property {
	p := Property{Type: PropertyDate}
	if day != "" {
		p.Date = &DateValue{Start: day}
	}
	return p
}

// AsRelation builds a relation to the given page ids.
func AsRelation(ids []string) Property {
	relations := make([]Relation, 0, len(ids))
	for _, id := range ids {
		relations = append(relations, Relation{ID: id})
	}
	return Property{Type: PropertyRelation, Relation: relations}
}

// AsURL builds a url value. An empty url is sent as null.
func AsURL(url string) Property {
	p := Property{Type: PropertyURL}
	if url != "" {
		p.URL = &url
	}
	return p
}

// AsCheckbox builds a checkbox value.
func AsCheckbox(checked bool) Property {
	return Property{Type: PropertyCheckbox, Checkbox: &checked}
}

// Truncate cuts text to MaxTextLength characters.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextLength {
		return text
	}
	return string([]rune(text)[:MaxTextLength])
}

// sanitizeOption removes commas, which the API rejects in option names.
func sanitizeOption(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, ",", ""))
}

// Runs returns the inline runs of a title or rich text value.
func (p Property) Runs() []document.Run {
	switch p.Type {
	case PropertyTitle:
		return ToRuns(p.Title)
	case PropertyRichText:
		return ToRuns(p.RichText)
	}
	return document.Plain(p.Text())
}

// Text flattens the value to plain text.
func (p Property) Text() string {
	switch p.Type {
	case PropertyTitle:
		return document.PlainText(ToRuns(p.Title))
	case PropertyRichText:
		return document.PlainText(ToRuns(p.RichText))
	case PropertyNumber:
		if p.Number == nil {
			return ""
		}
		return strconv.FormatFloat(*p.Number, 'f', -1, 64)
	case PropertySelect:
		if p.Select == nil {
			return ""
		}
		return p.Select.Name
	case PropertyMultiSelect:
		names := make([]string, 0, len(p.MultiSelect))
		for _, option := range p.MultiSelect {
			names = append(names, option.Name)
		}
		return strings.Join(names, ", ")
	case PropertyDate:
		if p.Date == nil {
			return ""
		}
		if p.Date.End != nil {
			return p.Date.Start + " - " + *p.Date.End
		}
		return p.Date.Start
	case PropertyRelation:
		ids := make([]string, 0, len(p.Relation))
		for _, r := range p.Relation {
			ids = append(ids, r.ID)
		}
		return strings.Join(ids, ", ")
	case PropertyCheckbox:
		return strconv.FormatBool(p.Checkbox != nil && *p.Checkbox)
	case PropertyURL:
		if p.URL == nil {
			return ""
		}
		return *p.URL
	case PropertyLastEditedTime:
		if p.LastEditedTime == nil {
			return ""
		}
		return p.LastEditedTime.Format(time.RFC3339)
	case PropertyCreatedTime:
		if p.CreatedTime == nil {
			return ""
		}
		return p.CreatedTime.Format(time.RFC3339)
	}
	return ""
}

// Markdown renders the value for a property table.
func (p Property) Markdown() string {
	if p.Type == PropertyTitle || p.Type == PropertyRichText {
		return document.InlineMarkdown(p.Runs())
	}
	return p.Text()
}

// Time parses a date value. Date-only values are read as midnight UTC.
func (p Property) Time() (time.Time, bool) {
	switch p.Type {
	case PropertyLastEditedTime:
		if p.LastEditedTime != nil {
			return *p.LastEditedTime, true
		}
	case PropertyCreatedTime:
		if p.CreatedTime != nil {
			return *p.CreatedTime, true
		}
	case PropertyDate:
		if p.Date != nil {
			return ParseTime(p.Date.Start)
		}
	}
	return time.Time{}, false
}

// ParseTime parses the timestamp and date layouts used by the API.
func ParseTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToRuns converts API rich text into document runs.
func ToRuns(texts []RichText) []document.Run {
	runs := make([]document.Run, 0, len(texts))
	for _, rt := range texts {
		run := document.Run{}
		switch {
		case rt.Type == "equation" && rt.Equation != nil:
			run.Text = rt.Equation.Expression
			run.Equation = true
		case rt.Text != nil:
			run.Text = rt.Text.Content
			if rt.Text.Link != nil {
				run.Href = rt.Text.Link.URL
			}
		default:
			run.Text = rt.PlainText
		}
		if rt.Href != nil && run.Href == "" {
			run.Href = *rt.Href
		}
		if rt.Annotations != nil {
			run.Annotations = *rt.Annotations
		}
		runs = append(runs, run)
	}
	return runs
}

// FromRuns converts document runs into API rich text.
func FromRuns(runs []document.Run) []RichText {
	texts := make([]RichText, 0, len(runs))
	for _, run := range runs {
		var rt RichText
		if run.Equation {
			rt = RichText{Type: "equation", Equation: &EquationContent{Expression: run.Text}}
		} else {
			rt = RichText{Type: "text", Text: &TextContent{Content: run.Text}}
			if run.Href != "" {
				rt.Text.Link = &Link{URL: run.Href}
			}
		}
		if run.Annotations != (document.Annotations{}) {
			annotations := run.Annotations
			if annotations.Color == "" {
				annotations.Color = document.DefaultColor
			}
			rt.Annotations = &annotations
		}
		texts = append(texts, rt)
	}
	return texts
}

// Key returns the join key stored in the ID property.
func (p *Page) Key() string {
	return p.Properties[FieldID].Text()
}

// Title returns the text of the title property.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type == PropertyTitle {
			return prop.Text()
		}
	}
	return ""
}

// RecordedVersion returns the Version property, 0 when unset.
func (p *Page) RecordedVersion() int {
	prop, ok := p.Properties[FieldVersion]
	if !ok || prop.Number == nil {
		return 0
	}
	return int(*prop.Number)
}

// SyncedAt returns the Synced At property.
func (p *Page) SyncedAt() (time.Time, bool) {
	prop, ok := p.Properties[FieldSyncedAt]
	if !ok {
		return time.Time{}, false
	}
	return prop.Time()
}

// ModifiedAt returns the Modified At property, falling back to the page's
// own last edited time.
func (p *Page) ModifiedAt() time.Time {
	if prop, ok := p.Properties[FieldModifiedAt]; ok {
		if t, ok := prop.Time(); ok {
			return t
		}
	}
	return p.LastEditedTime
}

// ExtendProperties merges props into the page, replacing same-named entries.
func (p *Page) ExtendProperties(props map[string]Property) {
	if p.Properties == nil {
		p.Properties = make(map[string]Property, len(props))
	}
	for name, prop := range props {
		p.Properties[name] = prop
	}
}

// PropertyNames returns the non-title property names in alphabetical order.
func (p *Page) PropertyNames() []string {
	names := make([]string, 0, len(p.Properties))
	for name, prop := range p.Properties {
		if prop.Type != PropertyTitle {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
