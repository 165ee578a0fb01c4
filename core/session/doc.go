// Package session owns the ERP login session.
//
// The ERP is only reachable through a signed-in web session identified by a cookie.
// This package keeps that cookie value (the token) together with its creation and
// expiry time, persists it between runs, and decides when a new login is required.
//
// # Components
//
//   - Session: immutable token with CreatedAt/ExpiresAt. A new login produces a new
//     Session; existing values are never modified.
//   - Store: load/save of the cached token. FileStore writes the token cache JSON
//     file, ObjectStore shares it through object storage and RedisStore through Redis.
//   - Manager: the single owner of the live Session. EnsureValid returns the held
//     session without I/O while it is valid; otherwise exactly one caller performs the
//     login and every concurrent caller reuses its result.
//
// # Token cache format
//
//	{".AspNetCore.Session": "<token>", "created-at": 1700000000, "expires-at": 1700001200}
//
// The token field is named after the session cookie.
package session
