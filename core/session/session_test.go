package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	created := time.Unix(1700000000, 0)

	t.Run("ComputesExpiry", func(t *testing.T) {
		s, err := New("tok", created, 20*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, created.Add(20*time.Minute), s.ExpiresAt)
		assert.True(t, s.ExpiresAt.After(s.CreatedAt))
	})

	t.Run("RejectsEmptyToken", func(t *testing.T) {
		_, err := New("", created, time.Minute)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("RejectsNonPositiveLifetime", func(t *testing.T) {
		_, err := New("tok", created, 0)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestSessionValid(t *testing.T) {
	created := time.Unix(1700000000, 0)
	s, err := New("tok", created, time.Minute)
	require.NoError(t, err)

	assert.True(t, s.Valid(created))
	assert.True(t, s.Valid(created.Add(59*time.Second)))
	assert.False(t, s.Valid(created.Add(time.Minute)))
	assert.False(t, Session{ExpiresAt: created.Add(time.Hour)}.Valid(created))
}

func TestConfigIsValidStore(t *testing.T) {
	assert.True(t, Config{Store: StoreFile}.IsValidStore())
	assert.True(t, Config{Store: StoreObject}.IsValidStore())
	assert.True(t, Config{Store: StoreRedis}.IsValidStore())
	assert.False(t, Config{Store: "memcached"}.IsValidStore())
}
