package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelofallars/hyperdash/internal/config"
	"github.com/angelofallars/hyperdash/internal/session"
)

func TestOpenTokenStore_Memory(t *testing.T) {
	store, closeStore, err := openTokenStore(context.Background(), &config.Config{TokenStore: config.TokenStoreMemory})
	require.NoError(t, err)
	defer closeStore()

	assert.IsType(t, &session.MemoryStore{}, store)
}

func TestOpenTokenStore_RedisUnreachable(t *testing.T) {
	_, _, err := openTokenStore(context.Background(), &config.Config{
		TokenStore: config.TokenStoreRedis,
		RedisAddr:  "127.0.0.1:1",
		SessionTTL: time.Minute,
	})
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "connecting to redis"))
}
