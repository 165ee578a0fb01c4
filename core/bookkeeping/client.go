package bookkeeping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrLogin is returned when the server rejects the credentials.
var ErrLogin = errors.New("bookkeeping login failed")

// RPCError is an error object returned by the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *RPCError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, e.Data.Message)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	ID      int64     `json:"id"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Client calls the bookkeeping JSON-RPC endpoint.
type Client struct {
	cfg      Config
	endpoint string
	http     *http.Client
	logger   *zap.Logger
	nextID   atomic.Int64

	mu  sync.Mutex
	uid int64
}

// New creates a bookkeeping client. hc may be nil.
func New(cfg Config, hc *http.Client, logger *zap.Logger) *Client {
	if hc == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:      cfg,
		endpoint: strings.TrimRight(cfg.URL, "/") + "/jsonrpc",
		http:     hc,
		logger:   logger,
	}
}

func (c *Client) call(ctx context.Context, service, method string, args ...any) (json.RawMessage, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		ID:      c.nextID.Add(1),
		Params:  rpcParams{Service: service, Method: method, Args: args},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s.%s request failed: %w", service, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s.%s returned status %d", service, method, resp.StatusCode)
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s.%s response: %w", service, method, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%s.%s: %w", service, method, out.Error)
	}
	return out.Result, nil
}

// Login returns the user id, logging in on first use.
func (c *Client) Login(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uid != 0 {
		return c.uid, nil
	}

	c.logger.Info("Authenticating bookkeeping client", zap.String("user", c.cfg.Username))
	result, err := c.call(ctx, "common", "login", c.cfg.Database, c.cfg.Username, c.cfg.APIKey)
	if err != nil {
		return 0, err
	}

	// the server answers false for rejected credentials
	var uid int64
	if err := json.Unmarshal(result, &uid); err != nil || uid == 0 {
		return 0, fmt.Errorf("%w: user %s", ErrLogin, c.cfg.Username)
	}

	c.uid = uid
	return uid, nil
}

// SearchRead runs search_read on model. A zero limit returns every row.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, fields []string, limit int) ([]map[string]any, error) {
	uid, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.call(ctx, "object", "execute_kw",
		c.cfg.Database, uid, c.cfg.APIKey,
		model, "search_read",
		[]any{domain, fields},
		map[string]any{"limit": limit},
	)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(result))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s rows: %w", model, err)
	}
	return rows, nil
}
