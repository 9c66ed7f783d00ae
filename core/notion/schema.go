package notion

import (
	"context"
	"sort"

	"refsync/core/errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/goccy/go-json"
)

// Property names shared by every synced database.
const (
	FieldID         = "ID"
	FieldVersion    = "Version"
	FieldSyncedAt   = "Synced At"
	FieldModifiedAt = "Modified At"
)

// RelationDef configures a relation property.
type RelationDef struct {
	DatabaseID string `json:"database_id"`
}

// PropertyDef is one entry of a database schema.
type PropertyDef struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name,omitempty"`
	Type     PropertyType `json:"type"`
	Relation *RelationDef `json:"relation,omitempty"`
}

// MarshalJSON writes the definition in the shape accepted by create and update.
func (d PropertyDef) MarshalJSON() ([]byte, error) {
	var config any = map[string]any{}
	switch d.Type {
	case PropertyNumber:
		config = map[string]any{"format": "number"}
	case PropertyRelation:
		databaseID := ""
		if d.Relation != nil {
			databaseID = d.Relation.DatabaseID
		}
		config = map[string]any{
			"database_id":     databaseID,
			"type":            "single_property",
			"single_property": map[string]any{},
		}
	}

	out := map[string]any{
		"type":         d.Type,
		string(d.Type): config,
	}
	if d.Name != "" {
		out["name"] = d.Name
	}
	return json.Marshal(out)
}

// Schema maps property names to their definitions.
type Schema map[string]PropertyDef

// Names returns the property names in alphabetical order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TitleDef() PropertyDef          { return PropertyDef{Type: PropertyTitle} }
func RichTextDef() PropertyDef       { return PropertyDef{Type: PropertyRichText} }
func NumberDef() PropertyDef         { return PropertyDef{Type: PropertyNumber} }
func SelectDef() PropertyDef         { return PropertyDef{Type: PropertySelect} }
func MultiSelectDef() PropertyDef    { return PropertyDef{Type: PropertyMultiSelect} }
func DateDef() PropertyDef           { return PropertyDef{Type: PropertyDate} }
func URLDef() PropertyDef            { return PropertyDef{Type: PropertyURL} }
func CheckboxDef() PropertyDef       { return PropertyDef{Type: PropertyCheckbox} }
func LastEditedTimeDef() PropertyDef { return PropertyDef{Type: PropertyLastEditedTime} }

// RelationDefTo returns a one-way relation to databaseID.
func RelationDefTo(databaseID string) PropertyDef {
	return PropertyDef{Type: PropertyRelation, Relation: &RelationDef{DatabaseID: databaseID}}
}

// RelationToSelf is the placeholder for a relation targeting the database
// that holds it. EnsureSchema and Templates replace it with the real id.
const RelationToSelf = "self"

// Resolve replaces self relations with databaseID.
func (s Schema) Resolve(databaseID string) Schema {
	out := make(Schema, len(s))
	for name, def := range s {
		if def.Type == PropertyRelation && def.Relation != nil && def.Relation.DatabaseID == RelationToSelf {
			def.Relation = &RelationDef{DatabaseID: databaseID}
		}
		out[name] = def
	}
	return out
}

// Diff compares required against the current schema of db. It returns the
// definitions to create and the first type mismatch found. The title property
// is matched by type since every database has exactly one.
func Diff(db *Database, required Schema) (Schema, error) {
	current := mapset.NewThreadUnsafeSet[string]()
	currentTitle := ""
	for name, def := range db.Properties {
		current.Add(name)
		if def.Type == PropertyTitle {
			currentTitle = name
		}
	}

	missing := Schema{}
	for _, name := range required.Names() {
		want := required[name]
		if want.Type == PropertyTitle {
			if currentTitle == "" {
				missing[name] = want
			} else if currentTitle != name {
				missing[currentTitle] = PropertyDef{Name: name, Type: PropertyTitle}
			}
			continue
		}
		if !current.Contains(name) {
			missing[name] = want
			continue
		}
		if got := db.Properties[name].Type; got != want.Type {
			return nil, &errors.SchemaMismatchError{
				Database: db.Name(),
				Field:    name,
				Want:     string(want.Type),
				Got:      string(got),
			}
		}
	}
	return missing, nil
}

// SchemaEditor reads and extends database schemas. *Client implements it.
type SchemaEditor interface {
	GetDatabase(ctx context.Context, databaseID string) (*Database, error)
	UpdateDatabase(ctx context.Context, databaseID string, schema Schema) (*Database, error)
}

// EnsureSchema checks that database databaseID has every required property.
// Missing properties are added in one update when create is set; otherwise
// the first one is reported as a SchemaMismatchError. Nothing is written when
// a type mismatch is found.
func EnsureSchema(ctx context.Context, c SchemaEditor, databaseID string, required Schema, create bool) (*Database, error) {
	db, err := c.GetDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	missing, err := Diff(db, required.Resolve(databaseID))
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return db, nil
	}

	if !create {
		name := missing.Names()[0]
		def := missing[name]
		if def.Name != "" {
			name = def.Name
		}
		return nil, &errors.SchemaMismatchError{
			Database: db.Name(),
			Field:    name,
			Want:     string(def.Type),
		}
	}

	return c.UpdateDatabase(ctx, databaseID, missing)
}
