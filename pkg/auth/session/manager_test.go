package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
		delete(m.ttls, key)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func TestManagerLifecycle(t *testing.T) {
	store := newMemoryStore()
	mgr := &Manager{store: store, keyer: prefixKeyer{}, ttl: time.Minute}
	ctx := context.Background()

	live, err := mgr.HasSession(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, live)

	require.NoError(t, mgr.Open(ctx, "token-1"))
	assert.Equal(t, time.Minute, store.ttls["session:access:token-1"])

	live, err = mgr.HasSession(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, live)

	require.NoError(t, mgr.Revoke(ctx, "token-1"))

	live, err = mgr.HasSession(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestManagerRequiresAccessID(t *testing.T) {
	mgr := &Manager{store: newMemoryStore(), keyer: prefixKeyer{}, ttl: time.Minute}
	ctx := context.Background()

	assert.Error(t, mgr.Open(ctx, "  "))
	assert.Error(t, mgr.Revoke(ctx, ""))

	_, err := mgr.HasSession(ctx, "")
	assert.Error(t, err)
}
