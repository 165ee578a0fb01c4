package config

import (
	"fmt"
	"reflect"
	"strings"

	"erp-sync/core/bookkeeping"
	"erp-sync/core/database"
	"erp-sync/core/erp"
	"erp-sync/core/fetch"
	"erp-sync/core/logger"
	"erp-sync/core/metrics"
	"erp-sync/core/server"
	"erp-sync/core/session"
	"erp-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// ERP holds configuration for the dealer ERP client.
	ERP erp.Config `mapstructure:"erp"`
	// Session holds configuration for ERP session caching.
	Session session.Config `mapstructure:"session"`
	// Fetch holds configuration for batch fetches.
	Fetch fetch.Config `mapstructure:"fetch"`
	// Bookkeeping holds configuration for the bookkeeping JSON-RPC client.
	Bookkeeping bookkeeping.Config `mapstructure:"bookkeeping"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the price history database.
	Database database.Config `mapstructure:"database"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Metrics holds configuration for Prometheus metrics.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. ERP_URL -> erp.url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.ERP.URL == "" {
		return fmt.Errorf("erp.url is required")
	}
	if !c.Session.IsValidStore() {
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session.lifetime must be positive")
	}
	if c.ERP.RetryMax < 0 {
		return fmt.Errorf("erp.retry_max must not be negative")
	}
	if c.Fetch.MaxConcurrency < 1 {
		return fmt.Errorf("fetch.max_concurrency must be at least 1")
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
