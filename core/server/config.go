package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Host is the interface to listen on. Empty means all interfaces.
	Host string `mapstructure:"host" default:""`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// MetricsPath is where Prometheus metrics are served. Empty disables the route.
	MetricsPath string `mapstructure:"metrics_path" default:"/metrics"`
}

// Address returns the listen address.
func (c Config) Address() string {
	port := c.Port
	if port == "" {
		port = "8080"
	}
	return c.Host + ":" + port
}
