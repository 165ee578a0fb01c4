package fetch

import (
	"context"
	"time"

	"erp-sync/core/erp"
	"erp-sync/core/metrics"
	"erp-sync/core/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one key in a batch.
type Result[K any, T any] struct {
	Key   K
	Value T
	Err   error
}

// Fetcher bounds and instruments batch fetches.
type Fetcher struct {
	MaxConcurrency int
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// New creates a fetcher from configuration.
func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{MaxConcurrency: cfg.MaxConcurrency, Logger: logger, Metrics: m}
}

func (f *Fetcher) limit() int {
	if f == nil || f.MaxConcurrency < 1 {
		return 1
	}
	return f.MaxConcurrency
}

func (f *Fetcher) logger() *zap.Logger {
	if f == nil || f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

// Run calls fn for every key with at most MaxConcurrency calls in flight. The
// returned slice has the same length and order as keys.
func Run[K any, T any](ctx context.Context, f *Fetcher, kind string, keys []K, fn func(context.Context, K) (T, error)) []Result[K, T] {
	start := time.Now()
	log := f.logger().With(zap.String("kind", kind))
	results := make([]Result[K, T], len(keys))

	var g errgroup.Group
	g.SetLimit(f.limit())

	for i, key := range keys {
		results[i].Key = key
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			value, err := fn(ctx, key)
			results[i].Value, results[i].Err = value, err

			if err != nil {
				log.Warn("Fetch failed", zap.Int("index", i), zap.Any("key", key), zap.Error(err))
			} else {
				log.Debug("Fetched", zap.Int("index", i), zap.Int("total", len(keys)), zap.Any("key", key))
			}
			return nil
		})
	}
	_ = g.Wait()

	if f != nil {
		f.Metrics.ObserveBatch(kind, time.Since(start))
	}
	log.Info("Batch fetch finished",
		zap.Int("total", len(keys)),
		zap.Int("failed", countFailed(results)),
		zap.Duration("took", time.Since(start)))
	return results
}

// ProductInquirer fetches a single product by reference.
type ProductInquirer interface {
	InquireProduct(ctx context.Context, ref string) (models.ProductRecord, error)
}

// InvoiceResolver resolves a single invoice with its products.
type InvoiceResolver interface {
	ResolveInvoice(ctx context.Context, ref models.InvoiceRef) (models.InvoiceRecord, error)
}

// Products inquires every reference.
func (f *Fetcher) Products(ctx context.Context, inq ProductInquirer, refs []string) []Result[string, models.ProductRecord] {
	return Run(ctx, f, "product", refs, inq.InquireProduct)
}

// Invoices resolves every invoice reference.
func (f *Fetcher) Invoices(ctx context.Context, res InvoiceResolver, refs []models.InvoiceRef) []Result[models.InvoiceRef, models.InvoiceRecord] {
	return Run(ctx, f, "invoice", refs, res.ResolveInvoice)
}

// FirstFatal returns the first error that is not limited to its own item.
func FirstFatal[K any, T any](results []Result[K, T]) error {
	for _, r := range results {
		if r.Err != nil && !erp.Recoverable(r.Err) {
			return r.Err
		}
	}
	return nil
}

// Errors returns the failed slots keyed by position.
func Errors[K any, T any](results []Result[K, T]) map[int]error {
	failed := make(map[int]error)
	for i, r := range results {
		if r.Err != nil {
			failed[i] = r.Err
		}
	}
	return failed
}

func countFailed[K any, T any](results []Result[K, T]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
