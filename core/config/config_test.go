package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://api.notion.com/v1", cfg.Notion.BaseURL)
	assert.Equal(t, "2022-06-28", cfg.Notion.Version)
	assert.Equal(t, "user", cfg.Zotero.LibraryType)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Sync.CreateMissingFields)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
notion:
  token: from-yaml
zotero:
  library_id: "1234"
sync:
  refs_database: refs-db
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ZOTERO_API_KEY=from-env-file\n"), 0o644))
	t.Setenv("NOTION_TOKEN", "from-env")
	t.Setenv("ZOTERO_API_KEY", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Notion.Token)
	assert.Equal(t, "from-env-file", cfg.Zotero.APIKey)
	assert.Equal(t, "1234", cfg.Zotero.LibraryID)
	assert.Equal(t, "refs-db", cfg.Sync.RefsDatabase)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("notion: [unclosed"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	cfg := &Config{}
	cfg.Notion.Token = "secret"
	cfg.Notion.Version = "2022-06-28"
	cfg.Server.Port = "9000"

	out, err := Dump(cfg, false)
	require.NoError(t, err)

	var parsed map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, Redacted, parsed["notion"]["token"])
	assert.Equal(t, "2022-06-28", parsed["notion"]["version"])
	assert.Equal(t, "9000", parsed["server"]["port"])
	assert.Equal(t, "", parsed["server"]["api_key"])
	assert.Contains(t, parsed, "sync")

	out, err = Dump(cfg, true)
	require.NoError(t, err)
	assert.Contains(t, string(out), "token: secret")
}
