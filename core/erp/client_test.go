package erp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"erp-sync/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSessions hands out numbered tokens and records invalidations.
type fakeSessions struct {
	mu          sync.Mutex
	current     string
	logins      int
	invalidated []string
	err         error
}

func (f *fakeSessions) EnsureValid(ctx context.Context) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return session.Session{}, f.err
	}
	if f.current == "" {
		f.logins++
		f.current = fmt.Sprintf("tok-%d", f.logins)
	}
	now := time.Now()
	return session.Session{Token: f.current, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}, nil
}

func (f *fakeSessions) Invalidate(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, token)
	if f.current == token {
		f.current = ""
	}
}

type failingTransport struct {
	calls atomic.Int32
}

func (t *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return nil, errors.New("connection reset by peer")
}

func testConfig(url string) Config {
	return Config{
		URL:           url,
		Username:      "dealer",
		Password:      "secret",
		DealerCode:    "AC0001",
		SessionCookie: ".AspNetCore.Session",
		RetryMax:      5,
		RetryDelay:    time.Millisecond,
	}
}

func TestCallReturnsData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/endpoint", r.URL.Path)
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Contains(t, r.Header.Get("Referer"), "/referer")

		cookie, err := r.Cookie(".AspNetCore.Session")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", cookie.Value)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "value", r.PostForm.Get("field"))

		_, _ = w.Write([]byte(`{"STATE":"TRUE","DATA":{"answer":42}}`))
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), &fakeSessions{}, zap.NewNop())
	data, err := c.Call(context.Background(), Request{
		Endpoint: "/endpoint",
		Referer:  "/referer",
		Payload:  map[string]string{"field": "value"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":42}`, string(data))
}

func TestCallRetriesTransportFailures(t *testing.T) {
	transport := &failingTransport{}
	cfg := testConfig("http://erp.invalid")

	c := NewClient(cfg, &fakeSessions{}, zap.NewNop(), WithHTTPClient(&http.Client{Transport: transport}))
	_, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})

	assert.ErrorIs(t, err, ErrConnectionExhausted)
	assert.False(t, Recoverable(err))
	assert.Equal(t, int32(cfg.RetryMax+1), transport.calls.Load())
}

func TestCallRecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"STATE":"TRUE","DATA":[1]}`))
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), &fakeSessions{}, zap.NewNop())
	data, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})
	require.NoError(t, err)
	assert.JSONEq(t, `[1]`, string(data))
	assert.Equal(t, int32(3), calls.Load())
}

func TestCallBadStatusIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), &fakeSessions{}, zap.NewNop())
	_, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})

	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallReauthenticatesOnceOnLogout(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cookie, _ := r.Cookie(".AspNetCore.Session")
		if cookie.Value == "tok-1" {
			_, _ = w.Write([]byte("LOGOUT"))
			return
		}
		_, _ = w.Write([]byte(`{"STATE":"TRUE","DATA":"ok"}`))
	}))
	defer server.Close()

	sessions := &fakeSessions{}
	c := NewClient(testConfig(server.URL), sessions, zap.NewNop())
	data, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})

	require.NoError(t, err)
	assert.JSONEq(t, `"ok"`, string(data))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, sessions.logins)
	assert.Equal(t, []string{"tok-1"}, sessions.invalidated)
}

func TestCallRepeatedLogoutIsAuthenticationError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("LOGOUT"))
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), &fakeSessions{}, zap.NewNop())
	_, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})

	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCallClassifiesItemErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "StateFalse", body: `{"STATE":"FALSE","DATA":null}`, want: ErrDataNotFound},
		{name: "NoDataFound", body: `{"STATE":"TRUE","DATA":"NO DATA FOUND"}`, want: ErrDataNotFound},
		{name: "Garbage", body: `<html>`, want: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(testConfig(server.URL), &fakeSessions{}, zap.NewNop())
			_, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCallSessionFailureIsReturned(t *testing.T) {
	c := NewClient(testConfig("http://erp.invalid"), &fakeSessions{err: ErrAuthentication}, zap.NewNop())
	_, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestCallHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := &failingTransport{}
	c := NewClient(testConfig("http://erp.invalid"), &fakeSessions{}, zap.NewNop(),
		WithHTTPClient(&http.Client{Transport: transport}))
	_, err := c.Call(ctx, Request{Endpoint: "/endpoint"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrConnectionExhausted)
}

func TestCallRateLimitSpacesRequests(t *testing.T) {
	var mu sync.Mutex
	var hits []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		mu.Unlock()
		_, _ = w.Write([]byte(`{"STATE":"TRUE","DATA":{}}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 20
	cfg.Burst = 1
	c := NewClient(cfg, &fakeSessions{}, zap.NewNop())

	for i := 0; i < 4; i++ {
		_, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hits, 4)
	for i := 1; i < len(hits); i++ {
		// 20 rps with burst 1 is one request every 50ms
		assert.GreaterOrEqual(t, hits[i].Sub(hits[i-1]), 40*time.Millisecond, "gap %d", i)
	}
}

func TestCallRateLimitWaitHonoursCancellation(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"STATE":"TRUE","DATA":{}}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 0.5
	cfg.Burst = 1
	c := NewClient(cfg, &fakeSessions{}, zap.NewNop())

	_, err := c.Call(context.Background(), Request{Endpoint: "/endpoint"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	_, err = c.Call(ctx, Request{Endpoint: "/endpoint"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRecoverable(t *testing.T) {
	assert.True(t, Recoverable(fmt.Errorf("wrapped: %w", ErrDataNotFound)))
	assert.True(t, Recoverable(ErrInvalidIdentity))
	assert.False(t, Recoverable(ErrInvalidResponse))
	assert.False(t, Recoverable(ErrAuthentication))
	assert.False(t, Recoverable(nil))
}
