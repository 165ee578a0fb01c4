package ledger

import (
	"bytes"
	"strings"
	"testing"

	"erp-sync/core/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBaseline(t *testing.T) {
	input := "\xEF\xBB\xBFReference, Quantity ,Notes\nA,10,x\n,3,skipped\nB,\"1,250.5\",\n"

	lines, err := ReadBaseline(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ReferenceID)
	assert.True(t, decimal.NewFromInt(10).Equal(lines[0].CountedQuantity))
	assert.True(t, decimal.RequireFromString("1250.5").Equal(lines[1].CountedQuantity))
}

func TestReadBaselineErrors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := ReadBaseline(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		_, err := ReadBaseline(strings.NewReader("Reference,Delta\nA,1\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("BadNumber", func(t *testing.T) {
		_, err := ReadBaseline(strings.NewReader("Reference,Quantity\nA,1\nB,many\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 3")
	})
}

func TestReadAdjustments(t *testing.T) {
	lines, err := ReadAdjustments(strings.NewReader("delta,reference\n-2,A\n5,B\n"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ReferenceID)
	assert.True(t, decimal.NewFromInt(-2).Equal(lines[0].DeltaQuantity))
}

func TestReadInvoiceRefs(t *testing.T) {
	refs, err := ReadInvoiceRefs(strings.NewReader("Invoice,GRN\nINV1,G1\nINV2,\n\nINV3\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.InvoiceRef{
		{InvoiceID: "INV1", GRNID: "G1"},
		{InvoiceID: "INV2"},
		{InvoiceID: "INV3"},
	}, refs)
}

func TestWriteAndReadBack(t *testing.T) {
	var buf bytes.Buffer
	adjustments := []models.AdjustmentLine{
		{ReferenceID: "A", DeltaQuantity: decimal.RequireFromString("2.5")},
		{ReferenceID: "B,1", DeltaQuantity: decimal.NewFromInt(-1)},
	}
	require.NoError(t, WriteAdjustments(&buf, adjustments))
	assert.Equal(t, "Reference,Delta\nA,2.5\n\"B,1\",-1\n", buf.String())

	back, err := ReadAdjustments(&buf)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, "B,1", back[1].ReferenceID)
}

func TestWriteInventory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInventory(&buf, []models.InventoryLine{{ReferenceID: "A", CountedQuantity: decimal.NewFromInt(15)}}))
	assert.Equal(t, "Reference,Quantity\nA,15\n", buf.String())
}

func TestWritePriceChanges(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePriceChanges(&buf, []models.PriceChange{{
		ReferenceID: "A",
		OldPrice:    decimal.NewFromInt(10),
		NewPrice:    decimal.NewFromInt(12),
		Status:      models.PriceUp,
	}}))
	assert.Equal(t, "Reference,Old Price,New Price,Status\nA,10,12,up\n", buf.String())
}
