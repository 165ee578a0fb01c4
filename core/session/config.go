package session

import "time"

const (
	StoreFile   = "file"
	StoreObject = "object"
	StoreRedis  = "redis"
)

// Config holds configuration for session caching.
type Config struct {
	// Lifetime is the server-implied session lifetime used to compute expiry.
	Lifetime time.Duration `mapstructure:"lifetime" default:"20m"`
	// Store selects the token cache backend (file, object, redis).
	Store string `mapstructure:"store" default:"file"`
	// Path is the token cache file for the file store.
	Path string `mapstructure:"path" default:"token.json"`
	// ObjectName is the object key for the object store.
	ObjectName string `mapstructure:"object_name" default:"session/token.json"`
	// RedisAddr is the host:port of the Redis server for the redis store.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword is the Redis password.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the Redis database number.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// RedisKey is the key holding the token cache.
	RedisKey string `mapstructure:"redis_key" default:"erp-sync:session"`
}

// IsValidStore checks if the configured store is supported.
func (c Config) IsValidStore() bool {
	switch c.Store {
	case StoreFile, StoreObject, StoreRedis:
		return true
	default:
		return false
	}
}
