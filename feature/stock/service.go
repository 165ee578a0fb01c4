package stock

import (
	"context"

	"erp-sync/core/fetch"
	"erp-sync/core/models"
	"erp-sync/core/reconcile"

	"go.uber.org/zap"
)

// StockSource provides the bookkeeping stock list.
type StockSource interface {
	FetchStock(ctx context.Context) ([]models.InventoryLine, error)
}

// Report is the outcome of an adjustment run.
type Report struct {
	Invoices    []models.InvoiceRecord  `json:"invoices"`
	Failures    map[string]string       `json:"failures,omitempty"`
	Adjustments []models.AdjustmentLine `json:"adjustments"`
	Result      *reconcile.Result       `json:"result"`
}

// Service runs inventory adjustments.
type Service struct {
	resolver fetch.InvoiceResolver
	fetcher  *fetch.Fetcher
	logger   *zap.Logger
}

// NewService creates a stock service.
func NewService(resolver fetch.InvoiceResolver, fetcher *fetch.Fetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{resolver: resolver, fetcher: fetcher, logger: logger}
}

// Adjust fetches refs and applies their products to baseline.
// Only invoices resolved with status Success contribute products.
func (s *Service) Adjust(ctx context.Context, refs []models.InvoiceRef, baseline []models.InventoryLine) (*Report, error) {
	results := s.fetcher.Invoices(ctx, s.resolver, refs)
	if err := fetch.FirstFatal(results); err != nil {
		return nil, err
	}

	report := &Report{
		Invoices: make([]models.InvoiceRecord, 0, len(results)),
		Failures: make(map[string]string),
	}

	var products []models.ProductRecord
	for _, r := range results {
		record := r.Value
		if record.InvoiceID == "" {
			record.InvoiceID = r.Key.InvoiceID
			record.GRNID = r.Key.GRNID
		}
		if r.Err != nil {
			record.Status = models.InvoiceFailed
			record.Products = nil
			report.Failures[r.Key.InvoiceID] = r.Err.Error()
		}
		if record.Status == models.InvoiceSuccess {
			products = append(products, record.Products...)
		}
		report.Invoices = append(report.Invoices, record)
	}

	report.Adjustments = reconcile.MergeDuplicates(products)
	result, err := reconcile.ApplyAdjustments(report.Adjustments, baseline)
	if err != nil {
		return nil, err
	}
	report.Result = result

	s.logger.Info("Stock adjustment finished",
		zap.Int("invoices", len(refs)),
		zap.Int("failed", len(report.Failures)),
		zap.Int("applied", result.Summary.Applied),
		zap.Int("unmatched", result.Summary.Unmatched))

	return report, nil
}
