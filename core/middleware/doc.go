// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - Auth: API key validation protecting every route except explicitly skipped
//     paths such as the metrics endpoint.
//   - RayID: a unique request ID (RayID) for every incoming request, stored in the
//     Fiber locals for logger.WithRayID and echoed in the X-Ray-ID response header.
//
// RayID is registered first so every later log line carries the ID.
package middleware
