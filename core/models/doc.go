// Package models holds the entities shared by the ERP client, the batch fetcher,
// the reconciliation engine and the ledger exchange format.
//
// # Entities
//
//   - ProductRecord: one product line scraped from the ERP (reference, description,
//     quantity, unit cost).
//   - InvoiceRef / InvoiceRecord: an invoice to fetch and the resolved result with its
//     product lines and resolution status.
//   - InventoryLine: one row of the baseline inventory ledger.
//   - AdjustmentLine: one quantity delta per distinct reference.
//   - PriceLine / PriceChange: bookkeeping prices and their comparison with the ERP.
//
// Quantities and prices use shopspring/decimal so that merged sums are exact.
package models
