// Package server holds the HTTP server configuration.
//
// The server exposes the pricing and stock features over HTTP together with the
// Prometheus metrics endpoint. The application entry point handles startup; this
// package only defines the settings.
//
// # Configuration
//
// The Config struct defines the listen host and port, the API key protecting every
// route, and the path of the metrics endpoint.
package server
