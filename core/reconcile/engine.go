package reconcile

import (
	"fmt"

	"erp-sync/core/models"

	"github.com/shopspring/decimal"
)

// MergeDuplicates sums product quantities per reference in first-seen order.
func MergeDuplicates(records []models.ProductRecord) []models.AdjustmentLine {
	lines := make([]models.AdjustmentLine, 0, len(records))
	for _, r := range records {
		lines = append(lines, models.AdjustmentLine{ReferenceID: r.ReferenceID, DeltaQuantity: r.Quantity})
	}
	return MergeAdjustments(lines)
}

// MergeAdjustments sums deltas per reference in first-seen order. Merging merged
// output returns it unchanged.
func MergeAdjustments(lines []models.AdjustmentLine) []models.AdjustmentLine {
	index := make(map[string]int, len(lines))
	merged := make([]models.AdjustmentLine, 0, len(lines))

	for _, line := range lines {
		if i, ok := index[line.ReferenceID]; ok {
			merged[i].DeltaQuantity = merged[i].DeltaQuantity.Add(line.DeltaQuantity)
			continue
		}
		index[line.ReferenceID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// ApplyAdjustments adds each adjustment to its baseline line. The baseline is not
// modified.
func ApplyAdjustments(adjustments []models.AdjustmentLine, baseline []models.InventoryLine) (*Result, error) {
	index, err := buildBaselineIndex(baseline)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Applied:   make([]models.InventoryLine, 0, len(adjustments)),
		Unmatched: make([]models.AdjustmentLine, 0),
		Summary: Summary{
			Adjustments:    len(adjustments),
			AppliedDelta:   decimal.Zero,
			UnmatchedDelta: decimal.Zero,
		},
	}

	seen := make(map[string]struct{}, len(adjustments))
	for _, adj := range adjustments {
		if _, dup := seen[adj.ReferenceID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAdjustment, adj.ReferenceID)
		}
		seen[adj.ReferenceID] = struct{}{}

		counted, ok := index[adj.ReferenceID]
		if !ok {
			result.Unmatched = append(result.Unmatched, adj)
			result.Summary.UnmatchedDelta = result.Summary.UnmatchedDelta.Add(adj.DeltaQuantity)
			continue
		}

		result.Applied = append(result.Applied, models.InventoryLine{
			ReferenceID:     adj.ReferenceID,
			CountedQuantity: counted.Add(adj.DeltaQuantity),
		})
		result.Summary.AppliedDelta = result.Summary.AppliedDelta.Add(adj.DeltaQuantity)
	}

	result.Summary.Applied = len(result.Applied)
	result.Summary.Unmatched = len(result.Unmatched)
	return result, nil
}

// buildBaselineIndex maps each reference to its counted quantity.
func buildBaselineIndex(baseline []models.InventoryLine) (map[string]decimal.Decimal, error) {
	index := make(map[string]decimal.Decimal, len(baseline))
	for _, line := range baseline {
		if _, dup := index[line.ReferenceID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBaseline, line.ReferenceID)
		}
		index[line.ReferenceID] = line.CountedQuantity
	}
	return index, nil
}
