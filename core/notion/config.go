package notion

// Config holds configuration for the workspace API client.
type Config struct {
	// Token is the integration token.
	Token string `mapstructure:"token" default:""`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com/v1"`
	// Version is sent as the Notion-Version header.
	Version string `mapstructure:"version" default:"2022-06-28"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RetryCount is the number of retries on rate limiting and server errors.
	RetryCount int `mapstructure:"retry_count" default:"3"`
}
