package cmd

import (
	"context"
	"fmt"

	"erp-sync/core/bookkeeping"
	"erp-sync/core/config"
	"erp-sync/core/erp"
	"erp-sync/core/fetch"
	"erp-sync/core/logger"
	"erp-sync/core/metrics"
	"erp-sync/core/session"
	"erp-sync/core/storage"

	"go.uber.org/zap"
)

// runtime bundles the clients every command works with.
type runtime struct {
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *metrics.Metrics
	storage     storage.Client
	store       session.Store
	sessions    *session.Manager
	erp         *erp.Client
	fetcher     *fetch.Fetcher
	bookkeeping *bookkeeping.Client

	closers []func() error
}

// bootstrap loads the configuration and wires the ERP stack.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: l}
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.New(cfg.Metrics.Namespace)
	}

	rt.storage, err = storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}

	rt.store, err = rt.sessionStore(ctx)
	if err != nil {
		return nil, err
	}

	login := erp.NewLogin(cfg.ERP, nil, l)
	rt.sessions = session.NewManager(login, rt.store, cfg.Session.Lifetime, l,
		session.WithMetrics(rt.metrics),
		// login plus the token cache round trip
		session.WithRefreshTimeout(2*cfg.ERP.Timeout()))
	rt.erp = erp.NewClient(cfg.ERP, rt.sessions, l, erp.WithClientMetrics(rt.metrics))
	rt.fetcher = fetch.New(cfg.Fetch, l, rt.metrics)

	if cfg.Bookkeeping.Database != "" {
		rt.bookkeeping = bookkeeping.New(cfg.Bookkeeping, nil, l)
	}

	return rt, nil
}

// sessionStore builds the configured token cache.
func (rt *runtime) sessionStore(ctx context.Context) (session.Store, error) {
	cfg := rt.cfg.Session
	field := rt.cfg.ERP.SessionCookie

	switch cfg.Store {
	case session.StoreObject:
		if err := storage.EnsureBucket(ctx, rt.storage, rt.cfg.Storage.Bucket); err != nil {
			return nil, err
		}
		return session.NewObjectStore(rt.storage, rt.cfg.Storage.Bucket, cfg.ObjectName, field), nil
	case session.StoreRedis:
		store, err := session.NewRedisStore(cfg, field)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, store.Close)
		return store, nil
	default:
		return session.NewFileStore(cfg.Path, field), nil
	}
}

// requireBookkeeping fails when no bookkeeping database is configured.
func (rt *runtime) requireBookkeeping() (*bookkeeping.Client, error) {
	if rt.bookkeeping == nil {
		return nil, fmt.Errorf("bookkeeping is not configured (set BOOKKEEPING_DATABASE)")
	}
	return rt.bookkeeping, nil
}

// Close releases the runtime.
func (rt *runtime) Close() {
	for _, c := range rt.closers {
		if err := c(); err != nil {
			rt.logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}
