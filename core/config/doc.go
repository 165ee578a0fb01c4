// Package config provides configuration management for erp-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (loaded with godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP listen address, API key and metrics path
//   - ERP: dealer ERP URL, credentials, retry and rate limit settings
//   - Session: session lifetime and token cache backend (file, object, redis)
//   - Fetch: batch concurrency
//   - Bookkeeping: JSON-RPC URL, database, credentials and product categories
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: price history database (MySQL or SQLite)
//   - Log: Logging level and format
//   - Metrics: Prometheus namespace
//
// Defaults come from the `default` struct tags of each section. Environment
// variables override them, with dots replaced by underscores (ERP_RETRY_MAX sets
// erp.retry_max).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.ERP.URL)
package config
