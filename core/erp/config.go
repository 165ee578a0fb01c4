package erp

import "time"

// Config holds configuration for the ERP client.
type Config struct {
	// URL is the ERP base URL. The login form posts to it directly.
	URL string `mapstructure:"url" default:"https://erp.dpg.lk"`
	// Username is the ERP login user.
	Username string `mapstructure:"username" default:""`
	// Password is the ERP login password.
	Password string `mapstructure:"password" default:""`
	// DealerCode identifies the dealer in inquiry payloads.
	DealerCode string `mapstructure:"dealer_code" default:""`
	// SessionCookie is the name of the session cookie set by the login.
	SessionCookie string `mapstructure:"session_cookie" default:".AspNetCore.Session"`
	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RetryMax is the number of retries after a transport failure.
	RetryMax int `mapstructure:"retry_max" default:"5"`
	// RetryDelay is the pause between transport retries.
	RetryDelay time.Duration `mapstructure:"retry_delay" default:"500ms"`
	// RequestsPerSecond caps outbound requests. Zero disables the limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"0"`
	// Burst is the rate limiter burst size.
	Burst int `mapstructure:"burst" default:"1"`
}

// Timeout returns the HTTP timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
