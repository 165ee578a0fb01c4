package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"erp-sync/core/ledger"
	"erp-sync/core/storage"

	"github.com/google/uuid"
)

const exportPrefix = "adjustments"

// Exporter writes adjustment runs to object storage.
type Exporter struct {
	client storage.Client
	bucket string
	newID  func() string
}

// NewExporter creates an exporter for bucket.
func NewExporter(client storage.Client, bucket string) *Exporter {
	return &Exporter{client: client, bucket: bucket, newID: uuid.NewString}
}

// Export uploads report and returns the run id.
func (e *Exporter) Export(ctx context.Context, report *Report) (string, error) {
	if err := storage.EnsureBucket(ctx, e.client, e.bucket); err != nil {
		return "", err
	}

	runID := e.newID()
	prefix := path.Join(exportPrefix, runID)

	var applied, unmatched, adjustments bytes.Buffer
	if err := ledger.WriteInventory(&applied, report.Result.Applied); err != nil {
		return "", err
	}
	if err := ledger.WriteAdjustments(&unmatched, report.Result.Unmatched); err != nil {
		return "", err
	}
	if err := ledger.WriteAdjustments(&adjustments, report.Adjustments); err != nil {
		return "", err
	}
	invoices, err := json.MarshalIndent(report.Invoices, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode invoices: %w", err)
	}

	objects := []struct {
		name        string
		data        []byte
		contentType string
	}{
		{"applied.csv", applied.Bytes(), "text/csv"},
		{"unmatched.csv", unmatched.Bytes(), "text/csv"},
		{"adjustments.csv", adjustments.Bytes(), "text/csv"},
		{"invoices.json", invoices, "application/json"},
	}
	for _, obj := range objects {
		if err := storage.PutBytes(ctx, e.client, e.bucket, path.Join(prefix, obj.name), obj.data, obj.contentType); err != nil {
			return "", err
		}
	}

	return runID, nil
}
