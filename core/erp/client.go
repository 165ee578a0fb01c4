package erp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"erp-sync/core/metrics"
	"erp-sync/core/session"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// baseHeaders mirror the headers the ERP's own pages send with XHR form posts.
var baseHeaders = map[string]string{
	"Accept":           "application/json, text/javascript, */*; q=0.01",
	"Content-Type":     "application/x-www-form-urlencoded; charset=UTF-8",
	"X-Requested-With": "XMLHttpRequest",
	"User-Agent":       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/93.0.4577.63 Safari/537.36",
	"Accept-Language":  "en-US,en;q=0.9",
	"Sec-Fetch-Site":   "same-origin",
	"Sec-Fetch-Mode":   "cors",
	"Sec-Fetch-Dest":   "empty",
}

// Sessions supplies and invalidates ERP sessions.
type Sessions interface {
	EnsureValid(ctx context.Context) (session.Session, error)
	Invalidate(token string)
}

// Request describes one ERP form post.
type Request struct {
	// Name labels the endpoint in logs and metrics.
	Name string
	// Endpoint is a path below the base URL.
	Endpoint string
	// Referer is a path below the base URL. Empty means the base URL itself.
	Referer string
	// Payload is sent as the form body.
	Payload map[string]string
	// Decode classifies the body. Nil means DecodeEnvelope.
	Decode Decoder
}

// Client calls ERP endpoints with session handling and retries.
type Client struct {
	cfg      Config
	baseURL  string
	http     *http.Client
	sessions Sessions
	limiter  *rate.Limiter
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithClientMetrics records requests and retries on m.
func WithClientMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates an ERP client.
func NewClient(cfg Config, sessions Sessions, logger *zap.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:      cfg,
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout()},
		sessions: sessions,
		logger:   logger,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DealerCode returns the configured dealer code.
func (c *Client) DealerCode() string {
	return c.cfg.DealerCode
}

// Call sends req and returns the DATA payload of a successful reply.
func (c *Client) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	name := req.Name
	if name == "" {
		name = req.Endpoint
	}

	failures := 0
	expired := false

	for {
		s, err := c.sessions.EnsureValid(ctx)
		if err != nil {
			return nil, err
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				return nil, fmt.Errorf("%s: rate limit: %w", name, err)
			}
		}

		body, err := c.post(ctx, req, s.Token)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			var statusErr *statusError
			if errors.As(err, &statusErr) {
				c.metrics.ObserveRequest(name, "bad_status")
				return nil, fmt.Errorf("%w: %s returned status %d", ErrInvalidResponse, name, statusErr.code)
			}

			c.metrics.ObserveRequest(name, "transport_error")
			failures++
			if failures > c.cfg.RetryMax {
				c.logger.Error("Connection retries exhausted",
					zap.String("endpoint", name),
					zap.Int("attempts", failures),
					zap.Error(err))
				return nil, fmt.Errorf("%w: %s failed %d times: %v", ErrConnectionExhausted, name, failures, err)
			}

			c.metrics.ObserveRetry("connection")
			c.logger.Warn("Connection failed, retrying request",
				zap.String("endpoint", name),
				zap.Int("attempt", failures),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
			continue
		}

		result, err := classify(body, req.Decode)
		if err != nil {
			c.metrics.ObserveRequest(name, "undecodable")
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.metrics.ObserveRequest(name, result.Kind.String())

		switch result.Kind {
		case KindSessionExpired:
			if expired {
				return nil, fmt.Errorf("%w: fresh session rejected by %s", ErrAuthentication, name)
			}
			expired = true
			c.metrics.ObserveRetry("session_expired")
			c.logger.Warn("Session expired, re-authenticating", zap.String("endpoint", name))
			c.sessions.Invalidate(s.Token)
			continue
		case KindNotFound:
			return nil, fmt.Errorf("%w: %s: %s", ErrDataNotFound, name, result.Reason)
		case KindInvalid:
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidIdentity, name, result.Reason)
		}

		return result.Data, nil
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (c *Client) post(ctx context.Context, req Request, token string) ([]byte, error) {
	form := url.Values{}
	for k, v := range req.Payload {
		form.Set(k, v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+req.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range baseHeaders {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Origin", c.baseURL)
	httpReq.Header.Set("Referer", c.baseURL+req.Referer)
	httpReq.AddCookie(&http.Cookie{Name: c.cfg.SessionCookie, Value: token})

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}
	return body, nil
}
