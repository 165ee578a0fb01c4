// Package reconcile turns fetched ERP product lines into inventory adjustments and
// applies them to a baseline ledger.
//
// Reconciliation runs in two steps over a complete batch result:
//
//  1. Merge: product lines are grouped by reference and their quantities summed,
//     giving exactly one AdjustmentLine per reference in first-seen order. Merging
//     is idempotent, so merged output can be merged again without change.
//
//  2. Apply: every adjustment is matched against the baseline by exact reference.
//     A match yields an InventoryLine with the baseline quantity plus the delta.
//     A miss is collected in Unmatched and reported, it does not fail the run.
//
// # Validation
//
// Matching is one-to-one. A baseline holding the same reference twice has no
// defined result and is rejected with ErrDuplicateBaseline. Adjustments must be
// merged before they are applied; repeated references are rejected with
// ErrDuplicateAdjustment.
//
// # Usage
//
//	adjustments := reconcile.MergeDuplicates(products)
//	result, err := reconcile.ApplyAdjustments(adjustments, baseline)
//	if err != nil {
//	    return err
//	}
//	for _, miss := range result.Unmatched {
//	    log.Warn("Unmatched reference", zap.String("reference", miss.ReferenceID))
//	}
//
// Quantities are shopspring/decimal values, so sums are exact.
package reconcile
