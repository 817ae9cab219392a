package client

import (
	"context"
	"sync"

	types "github.com/agentic-mesh/a2a/types"
)

// AgentCache stores discovery records keyed by endpoint. Entries are written
// once on first discovery and never refreshed by the client; staleness is a
// deliberate trade-off and callers needing fresh descriptors create a new
// client or evict out of band.
type AgentCache interface {
	// Get returns the cached descriptor for the endpoint, or nil on a miss
	Get(ctx context.Context, endpoint string) (*types.AgentInfo, error)

	// Set stores the descriptor for the endpoint
	Set(ctx context.Context, endpoint string, info *types.AgentInfo) error
}

// MemoryAgentCache is the default in-process cache. The map is guarded by a
// RWMutex so concurrent clients populating the same endpoint do not race.
type MemoryAgentCache struct {
	mu     sync.RWMutex
	agents map[string]*types.AgentInfo
}

var _ AgentCache = (*MemoryAgentCache)(nil)

// NewMemoryAgentCache creates an empty in-memory agent cache
func NewMemoryAgentCache() *MemoryAgentCache {
	return &MemoryAgentCache{
		agents: make(map[string]*types.AgentInfo),
	}
}

// Get returns the cached descriptor for the endpoint, or nil on a miss
func (c *MemoryAgentCache) Get(ctx context.Context, endpoint string) (*types.AgentInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.agents[endpoint], nil
}

// Set stores the descriptor for the endpoint
func (c *MemoryAgentCache) Set(ctx context.Context, endpoint string, info *types.AgentInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.agents[endpoint] = info
	return nil
}
