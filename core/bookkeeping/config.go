package bookkeeping

// Config holds configuration for the bookkeeping JSON-RPC client.
type Config struct {
	// URL is the bookkeeping server base URL.
	URL string `mapstructure:"url" default:"http://localhost:8069"`
	// Database is the bookkeeping database name.
	Database string `mapstructure:"database" default:""`
	// Username is the login user.
	Username string `mapstructure:"username" default:""`
	// APIKey authenticates the user.
	APIKey string `mapstructure:"api_key" default:""`
	// Categories are point-of-sale category name fragments to include.
	Categories []string `mapstructure:"categories" default:"bajaj,2w,3w,qute"`
	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
