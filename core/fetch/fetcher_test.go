package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"erp-sync/core/erp"
	"erp-sync/core/metrics"
	"erp-sync/core/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubInquirer struct {
	missing map[string]bool
}

func (s stubInquirer) InquireProduct(ctx context.Context, ref string) (models.ProductRecord, error) {
	if s.missing[ref] {
		return models.ProductRecord{}, fmt.Errorf("inquire product %s: %w", ref, erp.ErrDataNotFound)
	}
	return models.ProductRecord{ReferenceID: ref, UnitCost: decimal.NewFromInt(10)}, nil
}

func TestProductsIsolatesFailures(t *testing.T) {
	f := New(Config{MaxConcurrency: 2}, zap.NewNop(), metrics.New("test"))
	ids := []string{"A", "B", "C", "D", "E"}

	results := f.Products(context.Background(), stubInquirer{missing: map[string]bool{"C": true}}, ids)

	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, ids[i], r.Key)
		if i == 2 {
			assert.ErrorIs(t, r.Err, erp.ErrDataNotFound)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, ids[i], r.Value.ReferenceID)
	}
	assert.NoError(t, FirstFatal(results))
	assert.Len(t, Errors(results), 1)
}

func TestRunLogsZeroBasedIndex(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := New(Config{MaxConcurrency: 1}, zap.New(core), nil)

	f.Products(context.Background(), stubInquirer{missing: map[string]bool{"B": true}}, []string{"A", "B"})

	indexOf := func(msg string) int64 {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		return entries[0].ContextMap()["index"].(int64)
	}
	assert.Equal(t, int64(0), indexOf("Fetched"))
	assert.Equal(t, int64(1), indexOf("Fetch failed"))
}

func TestRunBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	keys := make([]int, 20)
	for i := range keys {
		keys[i] = i
	}

	f := &Fetcher{MaxConcurrency: 3}
	results := Run(context.Background(), f, "test", keys, func(ctx context.Context, k int) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return k * 2, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(3))
	for i, r := range results {
		assert.Equal(t, i*2, r.Value)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := Run(ctx, &Fetcher{MaxConcurrency: 2}, "test", []string{"a", "b", "c"}, func(ctx context.Context, k string) (string, error) {
		calls.Add(1)
		return k, nil
	})

	assert.Equal(t, int32(0), calls.Load())
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.ErrorIs(t, FirstFatal(results), context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	results := Run(context.Background(), nil, "test", []string{}, func(ctx context.Context, k string) (string, error) {
		return k, nil
	})
	assert.Empty(t, results)
}

func TestFirstFatal(t *testing.T) {
	fatal := fmt.Errorf("invoice X: %w", erp.ErrConnectionExhausted)
	results := []Result[string, int]{
		{Key: "a", Err: erp.ErrDataNotFound},
		{Key: "b", Err: fatal},
		{Key: "c", Err: errors.New("later")},
	}
	assert.Equal(t, fatal, FirstFatal(results))
}

type stubResolver struct{}

func (stubResolver) ResolveInvoice(ctx context.Context, ref models.InvoiceRef) (models.InvoiceRecord, error) {
	return models.InvoiceRecord{InvoiceID: ref.InvoiceID, Status: models.InvoiceSuccess}, nil
}

func TestInvoices(t *testing.T) {
	refs := []models.InvoiceRef{{InvoiceID: "1"}, {InvoiceID: "2", GRNID: "G"}}
	results := New(Config{MaxConcurrency: 4}, nil, nil).Invoices(context.Background(), stubResolver{}, refs)

	require.Len(t, results, 2)
	assert.Equal(t, "2", results[1].Value.InvoiceID)
	assert.Equal(t, refs[1], results[1].Key)
}
