package reconcile

import (
	"testing"

	"erp-sync/core/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(ref, qty string) models.ProductRecord {
	return models.ProductRecord{ReferenceID: ref, Quantity: d(qty)}
}

func adjustment(ref, delta string) models.AdjustmentLine {
	return models.AdjustmentLine{ReferenceID: ref, DeltaQuantity: d(delta)}
}

func inventory(ref, qty string) models.InventoryLine {
	return models.InventoryLine{ReferenceID: ref, CountedQuantity: d(qty)}
}

// assertAdjustments compares by value since decimals with equal value may differ in exponent.
func assertAdjustments(t *testing.T, expected, actual []models.AdjustmentLine) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].ReferenceID, actual[i].ReferenceID)
		assert.True(t, expected[i].DeltaQuantity.Equal(actual[i].DeltaQuantity),
			"%s: expected %s, got %s", expected[i].ReferenceID, expected[i].DeltaQuantity, actual[i].DeltaQuantity)
	}
}

func TestMergeDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		input    []models.ProductRecord
		expected []models.AdjustmentLine
	}{
		{
			name:     "Sums repeated references",
			input:    []models.ProductRecord{product("A", "2"), product("A", "3"), product("B", "1")},
			expected: []models.AdjustmentLine{adjustment("A", "5"), adjustment("B", "1")},
		},
		{
			name:     "Keeps first-seen order",
			input:    []models.ProductRecord{product("B", "1"), product("A", "2"), product("B", "4")},
			expected: []models.AdjustmentLine{adjustment("B", "5"), adjustment("A", "2")},
		},
		{
			name:     "Exact decimal sums",
			input:    []models.ProductRecord{product("A", "0.1"), product("A", "0.2")},
			expected: []models.AdjustmentLine{adjustment("A", "0.3")},
		},
		{
			name:     "Empty input",
			input:    nil,
			expected: []models.AdjustmentLine{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAdjustments(t, tt.expected, MergeDuplicates(tt.input))
		})
	}
}

func TestMergeAdjustmentsIsIdempotent(t *testing.T) {
	once := MergeDuplicates([]models.ProductRecord{
		product("A", "2"), product("C", "7"), product("A", "3"), product("B", "1"), product("C", "-2"),
	})
	twice := MergeAdjustments(once)

	assertAdjustments(t, once, twice)
	assertAdjustments(t, []models.AdjustmentLine{adjustment("A", "5"), adjustment("C", "5"), adjustment("B", "1")}, once)
}

func TestApplyAdjustments(t *testing.T) {
	baseline := []models.InventoryLine{inventory("A", "10"), inventory("B", "5")}
	adjustments := []models.AdjustmentLine{adjustment("A", "5"), adjustment("B", "1"), adjustment("C", "2")}

	result, err := ApplyAdjustments(adjustments, baseline)
	require.NoError(t, err)

	require.Len(t, result.Applied, 2)
	assert.Equal(t, "A", result.Applied[0].ReferenceID)
	assert.True(t, d("15").Equal(result.Applied[0].CountedQuantity))
	assert.Equal(t, "B", result.Applied[1].ReferenceID)
	assert.True(t, d("6").Equal(result.Applied[1].CountedQuantity))

	assertAdjustments(t, []models.AdjustmentLine{adjustment("C", "2")}, result.Unmatched)

	assert.Equal(t, 3, result.Summary.Adjustments)
	assert.Equal(t, 2, result.Summary.Applied)
	assert.Equal(t, 1, result.Summary.Unmatched)
	assert.True(t, d("6").Equal(result.Summary.AppliedDelta))
	assert.True(t, d("2").Equal(result.Summary.UnmatchedDelta))

	// baseline is read-only
	assert.True(t, d("10").Equal(baseline[0].CountedQuantity))
}

func TestApplyAdjustmentsAllMatched(t *testing.T) {
	baseline := []models.InventoryLine{inventory("X", "1"), inventory("Y", "0"), inventory("Z", "3.5")}
	adjustments := []models.AdjustmentLine{adjustment("Z", "-1.5"), adjustment("X", "4")}

	result, err := ApplyAdjustments(adjustments, baseline)
	require.NoError(t, err)

	assert.Empty(t, result.Unmatched)
	require.Len(t, result.Applied, 2)
	assert.True(t, d("2").Equal(result.Applied[0].CountedQuantity))
	assert.True(t, d("5").Equal(result.Applied[1].CountedQuantity))
}

func TestApplyAdjustmentsMatchIsExact(t *testing.T) {
	result, err := ApplyAdjustments(
		[]models.AdjustmentLine{adjustment("a", "1"), adjustment("A ", "1")},
		[]models.InventoryLine{inventory("A", "1")},
	)
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Len(t, result.Unmatched, 2)
}

func TestApplyAdjustmentsRejectsDuplicates(t *testing.T) {
	t.Run("Baseline", func(t *testing.T) {
		_, err := ApplyAdjustments(
			[]models.AdjustmentLine{adjustment("A", "1")},
			[]models.InventoryLine{inventory("A", "1"), inventory("A", "2")},
		)
		assert.ErrorIs(t, err, ErrDuplicateBaseline)
	})

	t.Run("Adjustments", func(t *testing.T) {
		_, err := ApplyAdjustments(
			[]models.AdjustmentLine{adjustment("A", "1"), adjustment("A", "2")},
			[]models.InventoryLine{inventory("A", "1")},
		)
		assert.ErrorIs(t, err, ErrDuplicateAdjustment)
	})
}

func TestApplyAdjustmentsEmpty(t *testing.T) {
	result, err := ApplyAdjustments(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Unmatched)
	assert.Equal(t, 0, result.Summary.Adjustments)
}
