package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	types "github.com/agentic-mesh/a2a/types"
	zap "go.uber.org/zap"
)

// A2AClient defines the interface for communicating with other agents
type A2AClient interface {
	// SendRequest sends one request envelope to the agent at endpoint and
	// returns the payload of the correlated reply
	SendRequest(ctx context.Context, toAgent, endpoint string, payload map[string]any) (map[string]any, error)

	// GetAgentInfo returns the agent descriptor for endpoint, served from the
	// discovery cache after the first fetch
	GetAgentInfo(ctx context.Context, endpoint string) (*types.AgentInfo, error)

	// GetHealth retrieves the liveness status of the agent at endpoint
	GetHealth(ctx context.Context, endpoint string) (*HealthResponse, error)

	// WaitForAgent polls the agent's health endpoint until it reports healthy
	// or the context is done
	WaitForAgent(ctx context.Context, endpoint string, interval time.Duration) error

	// Configuration
	SetTimeout(timeout time.Duration)
	SetHTTPClient(client *http.Client)

	// Logger configuration
	SetLogger(logger *zap.Logger)
	GetLogger() *zap.Logger
}

var _ A2AClient = (*Client)(nil)

// HealthResponse represents the response from the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Agent  string `json:"agent"`
}

// Config holds configuration options for the A2A client
type Config struct {
	AgentID    string
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
	Headers    map[string]string
	Cache      AgentCache
	Logger     *zap.Logger
}

// DefaultConfig returns a default configuration for the given agent identity.
// The 120s timeout matches the reference deployment; there is no retry and no
// cancellation beyond the timeout and the caller's context.
func DefaultConfig(agentID string) *Config {
	return &Config{
		AgentID:   agentID,
		Timeout:   120 * time.Second,
		UserAgent: "a2a-agent/1.0",
		Headers:   make(map[string]string),
		Logger:    zap.NewNop(),
	}
}

// Client represents an A2A protocol client
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
	cache      AgentCache
}

// NewClient creates a new A2A client with default configuration
func NewClient(agentID string) A2AClient {
	return NewClientWithConfig(DefaultConfig(agentID))
}

// NewClientWithLogger creates a new A2A client with a custom logger
func NewClientWithLogger(agentID string, logger *zap.Logger) A2AClient {
	config := DefaultConfig(agentID)
	config.Logger = logger
	return NewClientWithConfig(config)
}

// NewClientWithConfig creates a new A2A client with custom configuration
func NewClientWithConfig(config *Config) A2AClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cache := config.Cache
	if cache == nil {
		cache = NewMemoryAgentCache()
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
		cache:      cache,
	}
}

// SendRequest sends one request envelope and returns the payload of the
// correlated reply. The payload is returned verbatim whether the reply was a
// response or an error envelope; application-level success lives in the
// payload's own status field and is the caller's to inspect.
func (c *Client) SendRequest(ctx context.Context, toAgent, endpoint string, payload map[string]any) (map[string]any, error) {
	message := types.NewRequest(c.config.AgentID, toAgent, payload)

	c.logger.Debug("sending request",
		zap.String("message_id", message.MessageID),
		zap.String("to_agent", toAgent),
		zap.String("endpoint", endpoint))

	body, err := json.Marshal(message)
	if err != nil {
		c.logger.Error("failed to marshal message", zap.Error(err))
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	messageURL := endpoint + "/message"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, messageURL, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("request failed", zap.Error(err), zap.String("url", messageURL))
		return nil, NewTransportError(messageURL, err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", zap.Error(closeErr))
		}
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.logger.Error("failed to read response body", zap.Error(err))
		return nil, NewTransportError(messageURL, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		// surface the structured error envelope when the body carries one
		var envelope *types.Message
		var decoded types.Message
		if err := json.Unmarshal(respBody, &decoded); err == nil {
			envelope = &decoded
		}
		c.logger.Error("unexpected status code",
			zap.Int("status_code", httpResp.StatusCode),
			zap.String("url", messageURL))
		return nil, NewTransportStatusError(messageURL, httpResp.StatusCode, envelope)
	}

	var reply types.Message
	if err := json.Unmarshal(respBody, &reply); err != nil {
		c.logger.Error("failed to decode reply envelope", zap.Error(err))
		return nil, NewTransportError(messageURL, err)
	}

	c.logger.Debug("received reply",
		zap.String("message_id", reply.MessageID),
		zap.String("reply_to", reply.ReplyTo),
		zap.String("message_type", reply.Type.String()))

	return reply.Payload, nil
}

// GetAgentInfo returns the agent descriptor for endpoint. The first call per
// endpoint performs a discovery fetch; later calls are served from the cache
// without another network round-trip.
func (c *Client) GetAgentInfo(ctx context.Context, endpoint string) (*types.AgentInfo, error) {
	cached, err := c.cache.Get(ctx, endpoint)
	if err != nil {
		c.logger.Warn("agent cache lookup failed", zap.Error(err), zap.String("endpoint", endpoint))
	}
	if cached != nil {
		c.logger.Debug("agent info served from cache", zap.String("endpoint", endpoint))
		return cached, nil
	}

	infoURL := endpoint + "/info"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("agent info request failed", zap.Error(err), zap.String("url", infoURL))
		return nil, NewTransportError(infoURL, err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", zap.Error(closeErr))
		}
	}()

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status code for agent info",
			zap.Int("status_code", httpResp.StatusCode),
			zap.String("url", infoURL))
		return nil, NewTransportStatusError(infoURL, httpResp.StatusCode, nil)
	}

	var info types.AgentInfo
	if err := json.NewDecoder(httpResp.Body).Decode(&info); err != nil {
		c.logger.Error("failed to decode agent info", zap.Error(err))
		return nil, NewTransportError(infoURL, err)
	}

	if err := c.cache.Set(ctx, endpoint, &info); err != nil {
		c.logger.Warn("failed to cache agent info", zap.Error(err), zap.String("endpoint", endpoint))
	}

	c.logger.Debug("agent info retrieved",
		zap.String("agent_id", info.AgentID),
		zap.String("endpoint", endpoint))
	return &info, nil
}

// GetHealth retrieves the liveness status of the agent at endpoint
func (c *Client) GetHealth(ctx context.Context, endpoint string) (*HealthResponse, error) {
	healthURL := endpoint + "/health"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransportError(healthURL, err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", zap.Error(closeErr))
		}
	}()

	if httpResp.StatusCode != http.StatusOK {
		return nil, NewTransportStatusError(healthURL, httpResp.StatusCode, nil)
	}

	var health HealthResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&health); err != nil {
		return nil, NewTransportError(healthURL, err)
	}

	return &health, nil
}

// WaitForAgent polls the agent's health endpoint until it reports healthy or
// the context is done. Used at startup so callers do not race agents that are
// still binding their ports.
func (c *Client) WaitForAgent(ctx context.Context, endpoint string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		health, err := c.GetHealth(ctx, endpoint)
		if err == nil && health.Status == types.HealthStatusHealthy {
			c.logger.Debug("agent is ready", zap.String("endpoint", endpoint))
			return nil
		}
		if err != nil {
			c.logger.Debug("agent not ready yet", zap.Error(err), zap.String("endpoint", endpoint))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("agent at %s did not become healthy: %w", endpoint, ctx.Err())
		case <-ticker.C:
		}
	}
}

// setHeaders sets the common headers for HTTP requests
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}
}

// SetHTTPClient allows customizing the HTTP client
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
	c.config.HTTPClient = client
}

// SetTimeout sets the timeout for HTTP requests
func (c *Client) SetTimeout(timeout time.Duration) {
	c.config.Timeout = timeout
	if c.httpClient != nil {
		c.httpClient.Timeout = timeout
	}
}

// SetHeader sets a custom header for all requests
func (c *Client) SetHeader(key, value string) {
	if c.config.Headers == nil {
		c.config.Headers = make(map[string]string)
	}
	c.config.Headers[key] = value
}

// SetLogger sets the logger for the client
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
	c.config.Logger = logger
}

// GetLogger returns the current logger
func (c *Client) GetLogger() *zap.Logger {
	return c.logger
}
