package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"refsync/core/database"
	"refsync/core/logger"
	"refsync/core/notion"
	"refsync/core/server"
	"refsync/core/storage"
	"refsync/core/zotero"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used by exports.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run history database.
	Database database.Config `mapstructure:"database"`
	// Notion holds configuration for the destination workspace.
	Notion notion.Config `mapstructure:"notion"`
	// Zotero holds configuration for the origin library.
	Zotero zotero.Config `mapstructure:"zotero"`
	// Sync holds the databases and directories synced by default.
	Sync SyncConfig `mapstructure:"sync"`
}

// SyncConfig names the targets used when a command gets no explicit argument.
type SyncConfig struct {
	// RefsDatabase is the database holding references.
	RefsDatabase string `mapstructure:"refs_database" default:""`
	// CollectionsDatabase is the database holding collections.
	CollectionsDatabase string `mapstructure:"collections_database" default:""`
	// PagesDatabase is the database synced with the markdown directory.
	PagesDatabase string `mapstructure:"pages_database" default:""`
	// PagesDir is the markdown directory.
	PagesDir string `mapstructure:"pages_dir" default:"pages"`
	// ExportPrefix is the object key prefix of markdown exports.
	ExportPrefix string `mapstructure:"export_prefix" default:"pages"`
	// CreateMissingFields adds missing schema fields instead of failing.
	CreateMissingFields bool `mapstructure:"create_missing_fields" default:"true"`
}

// LoadConfig loads configuration from the .env file, an optional config.yaml
// in path, and environment variables, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	envPath := filepath.Join(path, ".env")

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. NOTION_TOKEN -> notion.token)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
