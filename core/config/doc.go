// Package config provides configuration management for refsync.
//
// It utilizes Viper for loading configuration from a .env file, an optional
// config.yaml and environment variables. Every key has a default declared in a
// `default` struct tag next to its `mapstructure` name.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: run history database (sqlite or MySQL)
//   - Storage: S3/MinIO credentials and bucket for markdown exports
//   - Log: Logging level and format
//   - Notion: workspace token and API version
//   - Zotero: library id, type and API key
//   - Sync: default databases and directories of the sync commands
//
// Environment variables map to nested keys with underscores, so NOTION_TOKEN
// sets notion.token.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Notion.Version)
package config
