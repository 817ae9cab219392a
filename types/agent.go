package types

// AgentCapability describes a named operation an agent exposes. The schemas
// are descriptive metadata; validation is the handler's responsibility.
type AgentCapability struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	InputSchema  map[string]any `json:"input_schema"`
	OutputSchema map[string]any `json:"output_schema"`
}

// AgentInfo is the discovery record served on /info. It is constructed once
// at agent startup and never mutated afterwards.
type AgentInfo struct {
	AgentID       string            `json:"agent_id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Endpoint      string            `json:"endpoint"`
	Capabilities  []AgentCapability `json:"capabilities"`
	Framework     string            `json:"framework"`
	ModelProvider string            `json:"model_provider"`
	Status        string            `json:"status"`
}

// NewAgentInfo creates an AgentInfo with the default "active" status.
func NewAgentInfo(agentID, name, description, endpoint string, capabilities []AgentCapability, framework, modelProvider string) *AgentInfo {
	return &AgentInfo{
		AgentID:       agentID,
		Name:          name,
		Description:   description,
		Endpoint:      endpoint,
		Capabilities:  capabilities,
		Framework:     framework,
		ModelProvider: modelProvider,
		Status:        AgentStatusActive,
	}
}
