package reconcile

import (
	"errors"

	"erp-sync/core/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateBaseline is returned when the baseline holds a reference more than once.
	ErrDuplicateBaseline = errors.New("duplicate reference in baseline")
	// ErrDuplicateAdjustment is returned when adjustments were not merged first.
	ErrDuplicateAdjustment = errors.New("duplicate reference in adjustments")
)

// Result is the outcome of applying adjustments to a baseline.
type Result struct {
	// Applied holds the updated ledger lines in adjustment order.
	Applied []models.InventoryLine `json:"applied"`

	// Unmatched holds adjustments whose reference is not in the baseline.
	Unmatched []models.AdjustmentLine `json:"unmatched"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconciliation run.
type Summary struct {
	// Adjustments is the number of adjustment lines considered.
	Adjustments int `json:"adjustments"`

	// Applied counts adjustments matched to a baseline line.
	Applied int `json:"applied"`

	// Unmatched counts adjustments without a baseline line.
	Unmatched int `json:"unmatched"`

	// AppliedDelta is the sum of all applied deltas.
	AppliedDelta decimal.Decimal `json:"applied_delta"`

	// UnmatchedDelta is the sum of all unmatched deltas.
	UnmatchedDelta decimal.Decimal `json:"unmatched_delta"`
}
