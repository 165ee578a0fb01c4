// Package pricing keeps the bookkeeping price list in step with the ERP.
//
// A refresh takes the bookkeeping price list, inquires every reference at the ERP
// in one bounded batch, and classifies each product:
//
//   - up / down / equal: the ERP selling price compared with the bookkeeping price
//   - none: the ERP had no usable price (unknown or expired reference)
//
// Fatal ERP errors abort the refresh; per-reference failures are reported next to
// the changes. When a database is configured every change is stored as a
// PriceSnapshot, giving a price history per reference.
//
// # HTTP
//
//	GET  /prices/:reference          live ERP price of one reference
//	GET  /prices/:reference/history  stored snapshots, newest first
//	POST /prices/refresh             refresh against the bookkeeping price list
package pricing
