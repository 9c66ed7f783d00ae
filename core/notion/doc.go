// Package notion is the destination side of every sync: a client for the
// Notion workspace API and the record types stored there.
//
// # Records
//
// A Page is a database row. Its Properties hold typed values (Property) and
// the sync join key lives in the ID text property, not in the page's own id.
// The As* constructors build values ready to send:
//
//	props := map[string]notion.Property{
//		notion.FieldID:      notion.AsRichText(item.Key()),
//		notion.FieldVersion: notion.AsNumber(float64(item.Version())),
//	}
//
// # Schema
//
// EnsureSchema compares a database against the properties a sync needs and
// adds the missing ones in a single update. Type mismatches are reported as
// errors.ErrSchemaMismatch before anything is written.
//
// # Content
//
// LoadPageTree fetches the block tree of a page, and Page.Document converts it
// into a document.Page for rendering. FromNodes goes the other way for
// content imported from markdown.
package notion
