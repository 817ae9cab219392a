package client_test

import (
	"context"
	"testing"
	"time"

	client "github.com/agentic-mesh/a2a/client"
	types "github.com/agentic-mesh/a2a/types"
	miniredis "github.com/alicebob/miniredis/v2"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	zap "go.uber.org/zap"
)

func setupRedisCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *client.RedisAgentCache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := client.NewRedisAgentCache(context.Background(), "redis://"+mr.Addr(), ttl, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return mr, cache
}

func TestRedisAgentCache_GetSet(t *testing.T) {
	_, cache := setupRedisCache(t, 0)
	ctx := context.Background()

	missing, err := cache.Get(ctx, "http://echo-agent:8080")
	require.NoError(t, err)
	assert.Nil(t, missing)

	info := types.NewAgentInfo("echo-agent", "Echo Agent", "Echoes text", "http://echo-agent:8080",
		[]types.AgentCapability{
			{
				Name:         "echo",
				Description:  "Echo the given text",
				InputSchema:  map[string]any{"text": "string"},
				OutputSchema: map[string]any{"text": "string"},
			},
		},
		"none", "none")
	require.NoError(t, cache.Set(ctx, "http://echo-agent:8080", info))

	cached, err := cache.Get(ctx, "http://echo-agent:8080")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, info, cached)
}

func TestRedisAgentCache_TTLExpiry(t *testing.T) {
	mr, cache := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	info := types.NewAgentInfo("echo-agent", "Echo Agent", "", "http://echo-agent:8080", nil, "none", "none")
	require.NoError(t, cache.Set(ctx, "http://echo-agent:8080", info))

	mr.FastForward(2 * time.Minute)

	expired, err := cache.Get(ctx, "http://echo-agent:8080")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestNewRedisAgentCache_InvalidURL(t *testing.T) {
	_, err := client.NewRedisAgentCache(context.Background(), "not-a-redis-url", 0, zap.NewNop())
	require.Error(t, err)
}

func TestNewRedisAgentCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.NewRedisAgentCache(ctx, "redis://127.0.0.1:1", 0, zap.NewNop())
	require.Error(t, err)
}
