package fetch

// Config holds configuration for batch fetches.
type Config struct {
	// MaxConcurrency bounds the number of in-flight ERP calls per batch.
	MaxConcurrency int `mapstructure:"max_concurrency" default:"8"`
}
