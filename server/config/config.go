package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	AgentID            string          `env:"AGENT_ID" description:"Unique identifier of this agent"`
	AgentName          string          `env:"AGENT_NAME" description:"Human readable agent name"`
	AgentDescription   string          `env:"AGENT_DESCRIPTION" description:"Human readable agent description"`
	AgentEndpoint      string          `env:"AGENT_ENDPOINT" description:"Advertised base URL other agents use to reach this agent"`
	AgentFramework     string          `env:"AGENT_FRAMEWORK,default=none" description:"Implementation technology tag advertised on /info"`
	AgentModelProvider string          `env:"AGENT_MODEL_PROVIDER,default=none" description:"Model provider tag advertised on /info"`
	Debug              bool            `env:"DEBUG,default=false"`
	ServerConfig       ServerConfig    `env:",prefix=SERVER_"`
	ClientConfig       ClientConfig    `env:",prefix=CLIENT_"`
	TelemetryConfig    TelemetryConfig `env:",prefix=TELEMETRY_"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                  string        `env:"PORT,default=8080" description:"HTTP server port"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=120s" description:"HTTP server read timeout"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=120s" description:"HTTP server write timeout"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=120s" description:"HTTP server idle timeout"`
	DisableHealthcheckLog bool          `env:"DISABLE_HEALTHCHECK_LOG,default=true" description:"Disable logging for health check requests"`
}

// ClientConfig holds outbound A2A client configuration
type ClientConfig struct {
	Timeout   time.Duration `env:"TIMEOUT,default=120s" description:"Timeout for outbound requests to other agents"`
	UserAgent string        `env:"USER_AGENT,default=a2a-agent/1.0" description:"User agent string for outbound requests"`
}

// MetricsConfig holds metrics server configuration
type MetricsConfig struct {
	Port         string        `env:"PORT,default=9090" description:"Metrics server port"`
	Host         string        `env:"HOST,default=" description:"Metrics server host (empty for all interfaces)"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s" description:"Metrics server read timeout"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s" description:"Metrics server write timeout"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=60s" description:"Metrics server idle timeout"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enable        bool          `env:"ENABLE,default=false" description:"Enable telemetry collection"`
	MetricsConfig MetricsConfig `env:",prefix=METRICS_"`
}

// Load loads configuration from environment variables, merging with the provided base config.
func Load(ctx context.Context, baseConfig *Config) (*Config, error) {
	return LoadWithLookuper(ctx, baseConfig, envconfig.OsLookuper())
}

// LoadWithLookuper creates and loads configuration using a custom lookuper and merges with user config
func LoadWithLookuper(ctx context.Context, baseConfig *Config, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	if baseConfig != nil {
		cfg = *baseConfig
	}

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NewWithDefaults creates a new config with defaults applied from struct tags.
func NewWithDefaults(ctx context.Context, baseConfig *Config) (*Config, error) {
	return LoadWithLookuper(ctx, baseConfig, &emptyLookuper{})
}

// emptyLookuper ensures that only default values from struct tags are used
type emptyLookuper struct{}

func (e *emptyLookuper) Lookup(key string) (string, bool) {
	return "", false
}

// Validate validates the configuration. Startup is fail-fast: a server cannot
// bind without an agent identity.
func (c *Config) Validate() error {
	if c.AgentID == "" {
		return fmt.Errorf("AGENT_ID is required")
	}
	return nil
}
