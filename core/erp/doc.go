// Package erp is the client for the dealer ERP web API.
//
// The ERP has no public API. Every endpoint is a form POST issued the way the ERP's
// own web pages issue it, authenticated by the session cookie that a browser login
// sets. This package hides the session lifecycle from callers: a Call obtains a
// valid session, sends the request, classifies the reply and recovers from the two
// transient conditions the ERP produces.
//
// # Call lifecycle
//
//  1. Obtain a valid session from the session manager (logging in when needed).
//  2. POST the form payload with the base browser headers, the page referer and the
//     session cookie.
//  3. Transport failures are retried up to RetryMax times, RetryDelay apart.
//  4. A body equal to LOGOUT means the server dropped the session. The session is
//     invalidated and the call is retried once with a fresh login.
//  5. The body is decoded once into a Result: Data, NotFound or Invalid.
//
// # Errors
//
// ErrAuthentication, ErrConnectionExhausted and ErrInvalidResponse abort a run.
// ErrDataNotFound and ErrInvalidIdentity only concern the requested item; use
// Recoverable to tell them apart.
//
// # Endpoints
//
//   - InquireProduct: item inquiry (selling price and description of a part).
//   - InquireInvoiceProducts: goods receipt / invoice line items.
//   - LookupGRN: help search over goods receipt notes.
//   - ResolveInvoice: finds the GRN of an invoice and fetches its products.
package erp
