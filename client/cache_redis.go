package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	types "github.com/agentic-mesh/a2a/types"
	redis "github.com/redis/go-redis/v9"
	zap "go.uber.org/zap"
)

const agentCacheKeyPrefix = "a2a:agents:"

// RedisAgentCache is a Redis-backed discovery cache so a fleet of clients can
// share descriptors. A TTL of 0 keeps entries forever, matching the in-memory
// cache's lifetime semantics.
type RedisAgentCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

var _ AgentCache = (*RedisAgentCache)(nil)

// NewRedisAgentCache connects to Redis using the given URL and verifies the
// connection. Fails fast on an unreachable broker.
func NewRedisAgentCache(ctx context.Context, url string, ttl time.Duration, logger *zap.Logger) (*RedisAgentCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis for agent discovery cache",
		zap.String("addr", opt.Addr),
		zap.Int("db", opt.DB))

	return &RedisAgentCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}, nil
}

// Get returns the cached descriptor for the endpoint, or nil on a miss
func (c *RedisAgentCache) Get(ctx context.Context, endpoint string) (*types.AgentInfo, error) {
	data, err := c.client.Get(ctx, agentCacheKeyPrefix+endpoint).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read agent cache entry: %w", err)
	}

	var info types.AgentInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode agent cache entry: %w", err)
	}

	return &info, nil
}

// Set stores the descriptor for the endpoint
func (c *RedisAgentCache) Set(ctx context.Context, endpoint string, info *types.AgentInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode agent cache entry: %w", err)
	}

	if err := c.client.Set(ctx, agentCacheKeyPrefix+endpoint, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write agent cache entry: %w", err)
	}

	c.logger.Debug("cached agent descriptor",
		zap.String("endpoint", endpoint),
		zap.String("agent_id", info.AgentID))
	return nil
}

// Close closes the underlying Redis connection
func (c *RedisAgentCache) Close() error {
	return c.client.Close()
}
