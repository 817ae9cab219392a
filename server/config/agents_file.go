package config

import (
	"context"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// AgentsFile is a YAML document describing every agent in a deployment.
// Environment variables take precedence; the file is the fallback for
// deployments that configure the whole mesh from one place.
type AgentsFile struct {
	Agents map[string]AgentEntry `yaml:"agents"`
}

// AgentEntry is the per-agent section of an agents file.
type AgentEntry struct {
	ID            string `yaml:"id"`
	Description   string `yaml:"description"`
	Port          string `yaml:"port"`
	Endpoint      string `yaml:"endpoint"`
	Framework     string `yaml:"framework"`
	ModelProvider string `yaml:"model_provider"`
}

// LoadAgentsFile parses an agents YAML file.
func LoadAgentsFile(path string) (*AgentsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agents file: %w", err)
	}

	var file AgentsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse agents file %s: %w", path, err)
	}

	if len(file.Agents) == 0 {
		return nil, fmt.Errorf("agents file %s contains no agents", path)
	}

	return &file, nil
}

// Agent returns the named agent entry or an error listing the known agents.
func (f *AgentsFile) Agent(name string) (*AgentEntry, error) {
	entry, ok := f.Agents[name]
	if !ok {
		names := make([]string, 0, len(f.Agents))
		for n := range f.Agents {
			names = append(names, n)
		}
		return nil, fmt.Errorf("agent %s not found in agents file, available agents: %v", name, names)
	}
	return &entry, nil
}

// BaseConfig converts an agents-file entry into a base config for
// LoadWithLookuper. Fields the file sets are kept; the environment and struct
// tag defaults fill only what the file left empty.
func (e *AgentEntry) BaseConfig(name string) *Config {
	id := e.ID
	if id == "" {
		id = name
	}

	return &Config{
		AgentID:            id,
		AgentName:          name,
		AgentDescription:   e.Description,
		AgentEndpoint:      e.Endpoint,
		AgentFramework:     e.Framework,
		AgentModelProvider: e.ModelProvider,
		ServerConfig: ServerConfig{
			Port: e.Port,
		},
	}
}

// LoadFromAgentsFile loads configuration for the named agent. When the
// environment already carries an agent identity the environment alone is
// used; otherwise the named file entry provides the base and the environment
// fills the rest.
func LoadFromAgentsFile(ctx context.Context, name, path string) (*Config, error) {
	if cfg, err := Load(ctx, nil); err == nil {
		return cfg, nil
	}

	file, err := LoadAgentsFile(path)
	if err != nil {
		return nil, err
	}

	entry, err := file.Agent(name)
	if err != nil {
		return nil, err
	}

	return Load(ctx, entry.BaseConfig(name))
}
