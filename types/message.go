package types

import (
	"encoding/json"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
)

// Message is the A2A envelope exchanged between agents. The addressing
// fields are advisory only; the transport does not enforce that ToAgent
// matches the server answering.
type Message struct {
	MessageID string         `json:"message_id"`
	FromAgent string         `json:"from_agent"`
	ToAgent   string         `json:"to_agent"`
	Type      MessageType    `json:"message_type"`
	Payload   map[string]any `json:"payload"`
	Timestamp string         `json:"timestamp,omitempty"`
	ReplyTo   string         `json:"reply_to,omitempty"`
}

// MalformedMessageError indicates a body that does not decode into a valid
// envelope: unknown message_type or a missing required field.
type MalformedMessageError struct {
	Reason string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed a2a message: %s", e.Reason)
}

// NewMalformedMessageError creates a new MalformedMessageError
func NewMalformedMessageError(reason string) error {
	return &MalformedMessageError{Reason: reason}
}

// NewRequest creates a request envelope with a fresh message id and UTC
// timestamp. Request envelopes never carry reply_to.
func NewRequest(fromAgent, toAgent string, payload map[string]any) *Message {
	return &Message{
		MessageID: uuid.New().String(),
		FromAgent: fromAgent,
		ToAgent:   toAgent,
		Type:      MessageTypeRequest,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewResponse creates a response envelope correlated to the given request:
// reply_to is the request's message id and to_agent its from_agent.
func NewResponse(fromAgent string, request *Message, payload map[string]any) *Message {
	return &Message{
		MessageID: uuid.New().String(),
		FromAgent: fromAgent,
		ToAgent:   request.FromAgent,
		Type:      MessageTypeResponse,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ReplyTo:   request.MessageID,
	}
}

// NewErrorMessage creates an error envelope correlated to the given request.
// The payload carries only the error text, never a stack trace.
func NewErrorMessage(fromAgent string, request *Message, errText string) *Message {
	return &Message{
		MessageID: uuid.New().String(),
		FromAgent: fromAgent,
		ToAgent:   request.FromAgent,
		Type:      MessageTypeError,
		Payload:   map[string]any{"error": errText},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ReplyTo:   request.MessageID,
	}
}

// Validate checks the invariants every decoded envelope must satisfy.
func (m *Message) Validate() error {
	if m.MessageID == "" {
		return NewMalformedMessageError("missing required field: message_id")
	}
	if m.FromAgent == "" {
		return NewMalformedMessageError("missing required field: from_agent")
	}
	if m.ToAgent == "" {
		return NewMalformedMessageError("missing required field: to_agent")
	}
	if m.Type == "" {
		return NewMalformedMessageError("missing required field: message_type")
	}
	if !m.Type.IsValid() {
		return NewMalformedMessageError(fmt.Sprintf("unknown message_type: %q", m.Type))
	}
	if m.Payload == nil {
		return NewMalformedMessageError("missing required field: payload")
	}
	return nil
}

// UnmarshalJSON decodes and validates an envelope. Decoding never silently
// defaults an unknown message_type.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return NewMalformedMessageError(err.Error())
	}
	*m = Message(decoded)
	return m.Validate()
}
