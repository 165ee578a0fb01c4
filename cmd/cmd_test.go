package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"erp-sync/core/config"
	"erp-sync/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "session", "prices", "stock", "orders"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	cmd, _, err := RootCmd.Find([]string{"stock", "adjust"})
	require.NoError(t, err)
	assert.NotNil(t, cmd.Flags().Lookup("invoices"))
	assert.NotNil(t, cmd.Flags().Lookup("baseline"))
}

func TestOrdersLookupRejectsUnknownColumn(t *testing.T) {
	ordersBy = "customer"
	t.Cleanup(func() { ordersBy = "order" })

	err := runOrdersLookup(ordersLookupCmd, []string{"DO-1"})
	assert.ErrorContains(t, err, "unknown search column")
}

func TestSessionStoreDefaultsToFile(t *testing.T) {
	rt := &runtime{
		cfg: &config.Config{Session: session.Config{
			Store: session.StoreFile,
			Path:  filepath.Join(t.TempDir(), "token.json"),
		}},
		logger: zap.NewNop(),
	}

	store, err := rt.sessionStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &session.FileStore{}, store)

	cached, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRequireBookkeeping(t *testing.T) {
	rt := &runtime{}
	_, err := rt.requireBookkeeping()
	assert.Error(t, err)
}
