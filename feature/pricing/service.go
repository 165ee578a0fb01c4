package pricing

import (
	"context"
	"errors"
	"time"

	"erp-sync/core/fetch"
	"erp-sync/core/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrHistoryDisabled is returned when no database is configured.
var ErrHistoryDisabled = errors.New("price history is disabled")

// PriceSource provides the bookkeeping price list.
type PriceSource interface {
	FetchPrices(ctx context.Context) ([]models.PriceLine, error)
}

// RefreshReport is the outcome of a price refresh.
type RefreshReport struct {
	Changes  []models.PriceChange `json:"changes"`
	Failures map[string]string    `json:"failures"`
	Counts   map[string]int       `json:"counts"`
}

// Service refreshes and looks up ERP prices.
type Service struct {
	inquirer fetch.ProductInquirer
	fetcher  *fetch.Fetcher
	repo     *Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a pricing service. repo may be nil.
func NewService(inquirer fetch.ProductInquirer, fetcher *fetch.Fetcher, repo *Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inquirer: inquirer, fetcher: fetcher, repo: repo, logger: logger, now: time.Now}
}

// Classify compares the bookkeeping price with the ERP price.
func Classify(old, current decimal.Decimal, found bool) models.PriceStatus {
	switch {
	case !found:
		return models.PriceNone
	case current.GreaterThan(old):
		return models.PriceUp
	case current.LessThan(old):
		return models.PriceDown
	default:
		return models.PriceEqual
	}
}

// Refresh inquires every price line at the ERP and classifies the change.
func (s *Service) Refresh(ctx context.Context, prices []models.PriceLine) (*RefreshReport, error) {
	refs := make([]string, len(prices))
	for i, p := range prices {
		refs[i] = p.ReferenceID
	}

	results := s.fetcher.Products(ctx, s.inquirer, refs)
	if err := fetch.FirstFatal(results); err != nil {
		return nil, err
	}

	report := &RefreshReport{
		Changes:  make([]models.PriceChange, 0, len(prices)),
		Failures: make(map[string]string),
		Counts:   make(map[string]int),
	}
	for i, r := range results {
		change := models.PriceChange{
			ReferenceID: prices[i].ReferenceID,
			OldPrice:    prices[i].SalesPrice,
			NewPrice:    prices[i].SalesPrice,
		}
		if r.Err != nil {
			report.Failures[r.Key] = r.Err.Error()
		} else {
			change.NewPrice = r.Value.UnitCost
		}
		change.Status = Classify(change.OldPrice, change.NewPrice, r.Err == nil)

		report.Changes = append(report.Changes, change)
		report.Counts[string(change.Status)]++
	}

	s.logger.Info("Price refresh finished",
		zap.Int("total", len(prices)),
		zap.Int("up", report.Counts[string(models.PriceUp)]),
		zap.Int("down", report.Counts[string(models.PriceDown)]),
		zap.Int("none", report.Counts[string(models.PriceNone)]))

	if s.repo != nil {
		if err := s.repo.Save(ctx, report.Changes, s.now()); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Lookup inquires the current ERP price of a single reference.
func (s *Service) Lookup(ctx context.Context, reference string) (models.ProductRecord, error) {
	return s.inquirer.InquireProduct(ctx, reference)
}

// History returns stored snapshots of a reference.
func (s *Service) History(ctx context.Context, reference string, limit int) ([]PriceSnapshot, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.History(ctx, reference, limit)
}
