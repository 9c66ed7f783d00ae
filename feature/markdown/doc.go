// Package markdown keeps a directory of markdown files and a database of
// pages in step, and exports pages to object storage.
//
// Both sides can be edited. A file counts as modified when its mtime is after
// the Synced At row of its property table; a page counts as modified when its
// Modified At is after its Synced At property. Pages changed on both sides
// are settled by a ConflictPolicy or reported as conflicts. Moving a file
// into a "deleted" directory archives its page on the next run.
//
// Files are written in the layout of document.RenderPage and read back with
// goldmark (GFM), which also converts the body into blocks on upload.
package markdown
