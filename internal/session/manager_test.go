package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelofallars/hyperdash/pkg/billing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_SetAndRemoveToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager("s1", store, discardLogger())

	require.NoError(t, m.SetToken(ctx, "tok_abc"))
	require.NoError(t, m.SetToken(ctx, "tok_abc"))
	assert.Equal(t, "tok_abc", m.Token())

	stored, err := store.Get(ctx, "authToken:s1")
	require.NoError(t, err)
	assert.Equal(t, "tok_abc", stored)

	require.NoError(t, m.RemoveToken(ctx))
	require.NoError(t, m.RemoveToken(ctx))
	assert.Empty(t, m.Token())

	_, ok, err := m.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := NewManager("a", store, discardLogger())
	b := NewManager("b", store, discardLogger())
	require.NoError(t, a.SetToken(ctx, "tok_a"))

	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_UnauthorizedResponseInvalidatesOnce(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := NewMemoryStore()
	m := NewManager("s1", store, discardLogger())
	require.NoError(t, m.SetToken(ctx, "tok_abc"))

	notified := 0
	m.OnInvalidate(func() { notified++ })

	client := billing.New(server.URL,
		billing.WithTokenSource(m),
		billing.WithUnauthorizedHandler(m.Invalidate),
	)

	_, err := client.Get(ctx, "/api/stats")
	require.ErrorIs(t, err, billing.ErrUnauthorized)

	assert.Empty(t, m.Token())
	_, err = store.Get(ctx, "authToken:s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, notified)

	assert.True(t, m.TakeReload())
	assert.False(t, m.TakeReload())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	store, err := ConnectRedis(ctx, &redis.Options{Addr: addr}, time.Minute)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "authToken:test", "tok"))
	v, err := store.Get(ctx, "authToken:test")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	require.NoError(t, store.Delete(ctx, "authToken:test"))
	_, err = store.Get(ctx, "authToken:test")
	assert.ErrorIs(t, err, ErrNotFound)
}
