package markdown

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"refsync/core/notion"
)

// DeletedDir is the directory name marking files whose page should be archived.
const DeletedDir = "deleted"

// Extension is the file extension of synced pages.
const Extension = ".md"

var unsafeChars = regexp.MustCompile(`[/;,><&*:%=+@!#^()|?]`)

// Sanitize removes the characters that are unsafe in file names.
func Sanitize(title string) string {
	return unsafeChars.ReplaceAllString(title, "")
}

// LocalPage is a markdown file of the synced directory.
type LocalPage struct {
	// Name is the file name without extension, the join key.
	Name string
	Path string
	// UpdatedAt is the file modification time.
	UpdatedAt time.Time
	// SyncedAt is read from the Synced At row of the property table. Zero
	// when the file was never exported.
	SyncedAt time.Time
	// Deleted is set for files below a deleted directory.
	Deleted bool
}

// Synced reports whether the file holds a Synced At timestamp.
func (p *LocalPage) Synced() bool {
	return !p.SyncedAt.IsZero()
}

// Modified reports whether the file changed after its last sync.
func (p *LocalPage) Modified() bool {
	return !p.Synced() || p.UpdatedAt.After(p.SyncedAt)
}

// ReadLocalPage loads the record of one file.
func ReadLocalPage(root, path string) (*LocalPage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	page := &LocalPage{
		Name:      strings.TrimSuffix(filepath.Base(path), Extension),
		Path:      path,
		UpdatedAt: info.ModTime(),
		Deleted:   inDeletedDir(root, path),
	}
	if value, ok := Parse(content).Property(notion.FieldSyncedAt); ok {
		if t, ok := notion.ParseTime(value); ok {
			page.SyncedAt = t
		}
	}
	return page, nil
}

func inDeletedDir(root, path string) bool {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == DeletedDir {
			return true
		}
	}
	return false
}

// ScanDir loads every markdown file below root keyed by name. When a live
// file and a deleted one share a name the live file wins.
func ScanDir(root string) (map[string]*LocalPage, error) {
	pages := map[string]*LocalPage{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Extension {
			return nil
		}

		page, err := ReadLocalPage(root, path)
		if err != nil {
			return err
		}
		if existing, ok := pages[page.Name]; ok && !existing.Deleted {
			return nil
		}
		pages[page.Name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}
