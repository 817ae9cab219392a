package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/agentic-mesh/a2a/types"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestNewAgentInfo_DefaultsToActive(t *testing.T) {
	info := types.NewAgentInfo(
		"echo-agent",
		"Echo Agent",
		"Echoes request payloads back",
		"http://echo-agent:8080",
		[]types.AgentCapability{
			{
				Name:         "echo",
				Description:  "Echo the given text",
				InputSchema:  map[string]any{"text": "string"},
				OutputSchema: map[string]any{"text": "string"},
			},
		},
		"none",
		"none",
	)

	assert.Equal(t, types.AgentStatusActive, info.Status)
	assert.Equal(t, "echo-agent", info.AgentID)
	assert.Len(t, info.Capabilities, 1)
}

func TestAgentInfo_JSONFieldNames(t *testing.T) {
	info := types.NewAgentInfo("echo-agent", "Echo Agent", "", "http://echo-agent:8080", nil, "none", "openai")

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "echo-agent", raw["agent_id"])
	assert.Equal(t, "http://echo-agent:8080", raw["endpoint"])
	assert.Equal(t, "openai", raw["model_provider"])
	assert.Equal(t, "active", raw["status"])
	assert.Contains(t, raw, "capabilities")
}
