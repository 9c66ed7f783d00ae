package zotero

// Library types accepted by the API.
const (
	LibraryUser  = "user"
	LibraryGroup = "group"
)

// Config holds configuration for the reference library client.
type Config struct {
	// APIKey is sent as the Zotero-API-Key header.
	APIKey string `mapstructure:"api_key" default:""`
	// LibraryID is the numeric user or group id.
	LibraryID string `mapstructure:"library_id" default:""`
	// LibraryType is "user" or "group".
	LibraryType string `mapstructure:"library_type" default:"user"`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.zotero.org"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RetryCount is the number of retries on rate limiting and server errors.
	RetryCount int `mapstructure:"retry_count" default:"3"`
}

// prefix returns the path of the configured library.
func (c Config) prefix() string {
	if c.LibraryType == LibraryGroup {
		return "/groups/" + c.LibraryID
	}
	return "/users/" + c.LibraryID
}
