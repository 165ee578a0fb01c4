package ledger

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"erp-sync/core/models"
	"erp-sync/core/utils"
)

const (
	colReference = "reference"
	colQuantity  = "quantity"
	colDelta     = "delta"
	colInvoice   = "invoice"
	colGRN       = "grn"
)

var (
	// ErrMissingHeader is returned for an empty file.
	ErrMissingHeader = errors.New("missing header row")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")
)

// table iterates rows of a CSV file by lower-cased header name.
type table struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &table{reader: cr, columns: make(map[string]int, len(header)), line: 1}
	for i, h := range header {
		t.columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return t, nil
}

// next returns the next row, or io.EOF.
func (t *table) next() ([]string, error) {
	record, err := t.reader.Read()
	t.line++
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", t.line, err)
	}
	return record, nil
}

func (t *table) get(record []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadBaseline reads Reference,Quantity rows.
func ReadBaseline(r io.Reader) ([]models.InventoryLine, error) {
	t, err := newTable(r, colReference, colQuantity)
	if err != nil {
		return nil, err
	}

	var lines []models.InventoryLine
	for {
		record, err := t.next()
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}

		ref := t.get(record, colReference)
		if ref == "" {
			continue
		}
		qty, err := utils.ToDecimal(t.get(record, colQuantity))
		if err != nil {
			return nil, fmt.Errorf("row %d: quantity of %s: %w", t.line, ref, err)
		}
		lines = append(lines, models.InventoryLine{ReferenceID: ref, CountedQuantity: qty})
	}
}

// ReadAdjustments reads Reference,Delta rows.
func ReadAdjustments(r io.Reader) ([]models.AdjustmentLine, error) {
	t, err := newTable(r, colReference, colDelta)
	if err != nil {
		return nil, err
	}

	var lines []models.AdjustmentLine
	for {
		record, err := t.next()
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}

		ref := t.get(record, colReference)
		if ref == "" {
			continue
		}
		delta, err := utils.ToDecimal(t.get(record, colDelta))
		if err != nil {
			return nil, fmt.Errorf("row %d: delta of %s: %w", t.line, ref, err)
		}
		lines = append(lines, models.AdjustmentLine{ReferenceID: ref, DeltaQuantity: delta})
	}
}

// ReadInvoiceRefs reads Invoice[,GRN] rows.
func ReadInvoiceRefs(r io.Reader) ([]models.InvoiceRef, error) {
	t, err := newTable(r, colInvoice)
	if err != nil {
		return nil, err
	}

	var refs []models.InvoiceRef
	for {
		record, err := t.next()
		if errors.Is(err, io.EOF) {
			return refs, nil
		}
		if err != nil {
			return nil, err
		}

		invoice := t.get(record, colInvoice)
		if invoice == "" {
			continue
		}
		refs = append(refs, models.InvoiceRef{InvoiceID: invoice, GRNID: t.get(record, colGRN)})
	}
}
