package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"erp-sync/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	refreshKey = "session"

	// DefaultRefreshTimeout bounds one shared login.
	DefaultRefreshTimeout = time.Minute
)

// Authenticator performs a fresh ERP login and returns the session token.
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// Manager owns the live session and refreshes it on demand.
type Manager struct {
	auth     Authenticator
	store    Store
	lifetime time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu      sync.RWMutex
	current *Session
	loaded  bool
	sf      singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRefreshTimeout bounds a shared login independently of the callers' contexts.
func WithRefreshTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithMetrics records logins on m.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// NewManager creates a session manager. store may be nil to disable caching.
func NewManager(auth Authenticator, store Store, lifetime time.Duration, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		auth:     auth,
		store:    store,
		lifetime: lifetime,
		timeout:  DefaultRefreshTimeout,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the held session without refreshing it.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// EnsureValid returns a usable session, logging in when the held one is missing or expired.
// Concurrent callers share a single login. The login runs detached from any single
// caller's cancellation, bounded by the refresh timeout; each caller stops waiting when
// its own ctx is done.
func (m *Manager) EnsureValid(ctx context.Context) (Session, error) {
	if s, ok := m.valid(); ok {
		return s, nil
	}

	ch := m.sf.DoChan(refreshKey, func() (interface{}, error) {
		if s, ok := m.valid(); ok {
			return s, nil
		}

		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		if s, ok := m.loadCached(refreshCtx); ok {
			return s, nil
		}

		return m.login(refreshCtx)
	})

	select {
	case <-ctx.Done():
		return Session{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Session{}, res.Err
		}
		if res.Shared {
			m.logger.Debug("Reused in-flight session refresh")
		}
		return res.Val.(Session), nil
	}
}

// Invalidate drops the held session if it still carries token.
func (m *Manager) Invalidate(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.Token == token {
		m.current = nil
		m.logger.Debug("Session invalidated")
	}
}

func (m *Manager) valid() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current != nil && m.current.Valid(m.now()) {
		return *m.current, true
	}
	return Session{}, false
}

// loadCached installs the stored session on first use.
func (m *Manager) loadCached(ctx context.Context) (Session, bool) {
	m.mu.Lock()
	if m.loaded || m.store == nil {
		m.loaded = true
		m.mu.Unlock()
		return Session{}, false
	}
	m.loaded = true
	m.mu.Unlock()

	cached, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("Failed to load cached session", zap.Error(err))
		return Session{}, false
	}
	if cached == nil || !cached.Valid(m.now()) {
		return Session{}, false
	}

	m.install(*cached)
	m.logger.Info("Using cached session", zap.Time("expires_at", cached.ExpiresAt))
	return *cached, true
}

func (m *Manager) login(ctx context.Context) (Session, error) {
	start := m.now()
	token, err := m.auth.Authenticate(ctx)
	if err != nil {
		return Session{}, err
	}

	s, err := New(token, start, m.lifetime)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	m.metrics.ObserveLogin()

	if m.store != nil {
		if err := m.store.Save(ctx, s); err != nil {
			m.logger.Warn("Failed to persist session", zap.Error(err))
		}
	}

	m.install(s)
	m.logger.Info("Logged in to ERP", zap.Time("expires_at", s.ExpiresAt))
	return s, nil
}

func (m *Manager) install(s Session) {
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
}
