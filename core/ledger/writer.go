package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"erp-sync/core/models"
)

// WriteInventory writes Reference,Quantity rows.
func WriteInventory(w io.Writer, lines []models.InventoryLine) error {
	rows := make([][]string, 0, len(lines)+1)
	rows = append(rows, []string{"Reference", "Quantity"})
	for _, l := range lines {
		rows = append(rows, []string{l.ReferenceID, l.CountedQuantity.String()})
	}
	return writeAll(w, rows)
}

// WriteAdjustments writes Reference,Delta rows.
func WriteAdjustments(w io.Writer, lines []models.AdjustmentLine) error {
	rows := make([][]string, 0, len(lines)+1)
	rows = append(rows, []string{"Reference", "Delta"})
	for _, l := range lines {
		rows = append(rows, []string{l.ReferenceID, l.DeltaQuantity.String()})
	}
	return writeAll(w, rows)
}

// WritePriceChanges writes Reference,Old Price,New Price,Status rows.
func WritePriceChanges(w io.Writer, changes []models.PriceChange) error {
	rows := make([][]string, 0, len(changes)+1)
	rows = append(rows, []string{"Reference", "Old Price", "New Price", "Status"})
	for _, c := range changes {
		rows = append(rows, []string{c.ReferenceID, c.OldPrice.String(), c.NewPrice.String(), string(c.Status)})
	}
	return writeAll(w, rows)
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
