package metrics

// Config holds configuration for metrics exposition.
type Config struct {
	// Enabled exposes /metrics on the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"erpsync"`
}
