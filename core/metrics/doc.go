// Package metrics provides Prometheus metrics for erp-sync.
//
// Metrics live in a private registry so that tests and multiple clients do not collide
// with the global default registry. Every method on *Metrics is nil-safe, which lets
// components accept an optional metrics instance.
//
// Metrics include:
//
//   - erp_requests_total{endpoint,outcome}: classified outcome of each remote call attempt
//   - erp_retries_total{reason}: connection and session-expiry retries
//   - erp_logins_total: performed authentications
//   - fetch_batch_duration_seconds{kind}: wall time of a batch fetch
//
// Metrics are exposed at /metrics by the start command.
package metrics
