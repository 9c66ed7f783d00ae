package markdown

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	synced := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	writeFile(t, filepath.Join(dir, "Synced.md"), "# Synced\n\n| Name | Value |\n| --- | --- |\n| Synced At | 2024-05-01T12:00:00Z |\n", synced.Add(-5*time.Second))
	writeFile(t, filepath.Join(dir, "nested", "Fresh.md"), "Just text\n", time.Time{})
	writeFile(t, filepath.Join(dir, DeletedDir, "Gone.md"), "# Gone\n", time.Time{})
	writeFile(t, filepath.Join(dir, DeletedDir, "Back.md"), "# Back\n", time.Time{})
	writeFile(t, filepath.Join(dir, "zz", "Back.md"), "# Back\n", time.Time{})
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored", time.Time{})

	pages, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, pages, 4)

	s := pages["Synced"]
	require.NotNil(t, s)
	assert.True(t, s.Synced())
	assert.True(t, s.SyncedAt.Equal(synced))
	assert.False(t, s.Modified())
	assert.False(t, s.Deleted)

	fresh := pages["Fresh"]
	require.NotNil(t, fresh)
	assert.False(t, fresh.Synced())
	assert.True(t, fresh.Modified())

	assert.True(t, pages["Gone"].Deleted)
	assert.False(t, pages["Back"].Deleted)
	assert.Equal(t, filepath.Join(dir, "zz", "Back.md"), pages["Back"].Path)
}

func TestModified(t *testing.T) {
	synced := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		page LocalPage
		want bool
	}{
		{"never synced", LocalPage{UpdatedAt: synced}, true},
		{"written by sync", LocalPage{UpdatedAt: synced.Add(-mtimeOffset), SyncedAt: synced}, false},
		{"edited later", LocalPage{UpdatedAt: synced.Add(time.Minute), SyncedAt: synced}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.Modified())
		})
	}
}
