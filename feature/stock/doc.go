// Package stock turns fetched invoices into inventory adjustments.
//
// An adjustment run resolves every invoice at the ERP in one bounded batch, merges
// the products of the resolved invoices into one delta per reference and applies the
// deltas to a baseline inventory. The baseline comes from the request or, when it is
// omitted, from the bookkeeping stock list.
//
// Runs can be exported to object storage under adjustments/<run id>/ as
// applied.csv, unmatched.csv, adjustments.csv and invoices.json.
package stock
