package memory

import (
	"context"
	"testing"
	"time"

	"github.com/archimedes-labs/archimedes-backend/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestSetWithTTL(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestSetOverwriteClearsTTL(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), 10*time.Millisecond))
	require.NoError(t, s.Set(ctx, "k", []byte("v2")))

	time.Sleep(20 * time.Millisecond)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestDel(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))

	n, err := s.Del(ctx, "a", "b", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestExists(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))

	n, err := s.Exists(ctx, "a", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestExpireAndTTL(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))

	ttl, err := s.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)

	ok, err := s.Expire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err = s.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	ok, err = s.Expire(ctx, "missing", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.TTL(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestIncrBy(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	n, err := s.IncrBy(ctx, "counter", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = s.IncrBy(ctx, "counter", -2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, s.Set(ctx, "text", []byte("abc")))
	_, err = s.IncrBy(ctx, "text", 1)
	assert.Error(t, err)
}

func TestJanitorEvictsExpired(t *testing.T) {
	s := New(10 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 5*time.Millisecond))

	time.Sleep(50 * time.Millisecond)

	s.mu.RLock()
	_, exists := s.values["k"]
	s.mu.RUnlock()
	assert.False(t, exists, "janitor should have removed the key")
}
