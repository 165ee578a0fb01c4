package bookkeeping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeServer struct {
	logins  atomic.Int32
	lastReq rpcRequest
	rows    string
	uid     string
}

func (f *fakeServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jsonrpc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "call", req.Method)

		switch req.Params.Service + "." + req.Params.Method {
		case "common.login":
			f.logins.Add(1)
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + f.uid + `}`))
		case "object.execute_kw":
			f.lastReq = req
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":2,"result":` + f.rows + `}`))
		default:
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":3,"error":{"code":200,"message":"Odoo Server Error","data":{"name":"KeyError","message":"unknown"}}}`))
		}
	}
}

func newTestClient(t *testing.T, f *fakeServer) *Client {
	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)
	return New(Config{
		URL:        server.URL,
		Database:   "shop",
		Username:   "admin",
		APIKey:     "key",
		Categories: []string{"bajaj", "2w", "3w", "qute"},
	}, nil, zap.NewNop())
}

func TestLoginCachesUserID(t *testing.T) {
	f := &fakeServer{uid: "7", rows: "[]"}
	c := newTestClient(t, f)

	uid, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid)

	_, err = c.SearchRead(context.Background(), "product.template", nil, []string{"id"}, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.logins.Load())
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, &fakeServer{uid: "false"})
	_, err := c.Login(context.Background())
	assert.ErrorIs(t, err, ErrLogin)
}

func TestRPCError(t *testing.T) {
	c := newTestClient(t, &fakeServer{uid: "1"})
	_, err := c.call(context.Background(), "object", "missing")

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, 200, rpcErr.Code)
	assert.Contains(t, err.Error(), "unknown")
}

func TestFetchStock(t *testing.T) {
	f := &fakeServer{uid: "2", rows: `[
		{"id":1,"default_code":"A","qty_available":10},
		{"id":2,"default_code":false,"qty_available":3},
		{"id":3,"default_code":"B","qty_available":2.5}]`}
	c := newTestClient(t, f)

	lines, err := c.FetchStock(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ReferenceID)
	assert.True(t, decimal.NewFromInt(10).Equal(lines[0].CountedQuantity))
	assert.True(t, decimal.RequireFromString("2.5").Equal(lines[1].CountedQuantity))

	args := f.lastReq.Params.Args
	require.Len(t, args, 7)
	assert.Equal(t, "shop", args[0])
	assert.EqualValues(t, 2, args[1])
	assert.Equal(t, "product.template", args[3])
	assert.Equal(t, "search_read", args[4])
	assert.Equal(t, map[string]any{"limit": float64(0)}, args[6])
}

func TestFetchPrices(t *testing.T) {
	f := &fakeServer{uid: "2", rows: `[{"id":1,"default_code":"A","list_price":120.5,"standard_price":100}]`}
	c := newTestClient(t, f)

	lines, err := c.FetchPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, decimal.RequireFromString("120.5").Equal(lines[0].SalesPrice))
	assert.True(t, decimal.NewFromInt(100).Equal(lines[0].Cost))
}

func TestPosDomain(t *testing.T) {
	domain := posDomain([]string{"bajaj", "2w", "3w"})
	expected := []any{
		"&",
		[]any{"available_in_pos", "=", true},
		"|", "|",
		[]any{"pos_categ_id", "ilike", "bajaj"},
		[]any{"pos_categ_id", "ilike", "2w"},
		[]any{"pos_categ_id", "ilike", "3w"},
	}
	assert.Equal(t, expected, domain)
}

func TestPosDomainWithoutCategories(t *testing.T) {
	assert.Equal(t, []any{[]any{"available_in_pos", "=", true}}, posDomain(nil))
}
