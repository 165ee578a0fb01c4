package models

import "github.com/shopspring/decimal"

// ProductRecord is a product line parsed from an ERP payload.
type ProductRecord struct {
	// ReferenceID is the part number used as the join key with the ledger.
	ReferenceID string `json:"reference"`
	// Description is the ERP description of the part, if any.
	Description string `json:"description,omitempty"`
	// Quantity is the quantity on the source document (zero for price inquiries).
	Quantity decimal.Decimal `json:"quantity"`
	// UnitCost is the unit cost or selling price reported by the ERP.
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// InvoiceStatus describes how an invoice was resolved.
type InvoiceStatus string

const (
	// InvoiceSuccess means products were fetched for the invoice.
	InvoiceSuccess InvoiceStatus = "Success"
	// InvoiceFailed means the invoice could not be found or fetched.
	InvoiceFailed InvoiceStatus = "Failed"
	// InvoiceMultiple means the invoice number matched more than one GRN.
	InvoiceMultiple InvoiceStatus = "Multiple"
)

// InvoiceRef identifies an invoice to fetch. GRNID is optional.
type InvoiceRef struct {
	InvoiceID string `json:"invoice_id"`
	GRNID     string `json:"grn_id,omitempty"`
}

// InvoiceRecord is the resolved form of an InvoiceRef.
type InvoiceRecord struct {
	InvoiceID string          `json:"invoice_id"`
	GRNID     string          `json:"grn_id,omitempty"`
	Status    InvoiceStatus   `json:"status"`
	Products  []ProductRecord `json:"products"`
}

// InventoryLine is one row of the baseline inventory ledger.
type InventoryLine struct {
	ReferenceID     string          `json:"reference"`
	CountedQuantity decimal.Decimal `json:"quantity"`
}

// AdjustmentLine is the quantity delta for one reference.
type AdjustmentLine struct {
	ReferenceID   string          `json:"reference"`
	DeltaQuantity decimal.Decimal `json:"delta"`
}

// PriceLine is a product price row held by the bookkeeping system.
type PriceLine struct {
	ReferenceID string          `json:"reference"`
	SalesPrice  decimal.Decimal `json:"sales_price"`
	Cost        decimal.Decimal `json:"cost"`
}

// PriceStatus classifies a price change between bookkeeping and ERP.
type PriceStatus string

const (
	PriceNone  PriceStatus = "none"
	PriceUp    PriceStatus = "up"
	PriceDown  PriceStatus = "down"
	PriceEqual PriceStatus = "equal"
)

// PriceChange is the comparison of one bookkeeping price with the ERP price.
type PriceChange struct {
	ReferenceID string          `json:"reference"`
	OldPrice    decimal.Decimal `json:"old_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	Status      PriceStatus     `json:"status"`
}
