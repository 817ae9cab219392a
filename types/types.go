package types

// MessageType represents the kind of an A2A message envelope.
type MessageType string

// MessageType enum values for the three envelope kinds
const (
	// MessageTypeRequest represents a request envelope sent to another agent
	MessageTypeRequest MessageType = "request"

	// MessageTypeResponse represents a successful reply correlated to a request
	MessageTypeResponse MessageType = "response"

	// MessageTypeError represents a failed reply correlated to a request
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the MessageType
func (t MessageType) String() string {
	return string(t)
}

// IsValid checks if the MessageType is one of the supported values
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeRequest, MessageTypeResponse, MessageTypeError:
		return true
	default:
		return false
	}
}

// Health status constants
const (
	HealthStatusHealthy = "healthy"
)

// Agent status constants
const (
	AgentStatusActive   = "active"
	AgentStatusInactive = "inactive"
)
