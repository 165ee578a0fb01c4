// Package ledger reads and writes the CSV exchange files of a reconciliation run.
//
// Three row shapes are exchanged with the bookkeeping side:
//
//	Reference,Quantity   baseline inventory (InventoryLine)
//	Reference,Delta      adjustments (AdjustmentLine)
//	Invoice,GRN          invoices to fetch (InvoiceRef, GRN optional)
//
// Headers are matched case-insensitively and may appear in any order; extra
// columns are ignored. A UTF-8 byte order mark is stripped. Rows with an empty
// reference are skipped. A number that does not parse is an error naming the row.
package ledger
