package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/agentic-mesh/a2a/types"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestMessageType_IsValid(t *testing.T) {
	tests := []struct {
		name        string
		messageType types.MessageType
		want        bool
	}{
		{"request is valid", types.MessageTypeRequest, true},
		{"response is valid", types.MessageTypeResponse, true},
		{"error is valid", types.MessageTypeError, true},
		{"empty is invalid", types.MessageType(""), false},
		{"unknown is invalid", types.MessageType("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.messageType.IsValid())
		})
	}
}

func TestNewRequest(t *testing.T) {
	payload := map[string]any{"action": "echo", "text": "hi"}
	msg := types.NewRequest("caller", "echo-agent", payload)

	assert.NotEmpty(t, msg.MessageID)
	assert.Equal(t, "caller", msg.FromAgent)
	assert.Equal(t, "echo-agent", msg.ToAgent)
	assert.Equal(t, types.MessageTypeRequest, msg.Type)
	assert.Equal(t, payload, msg.Payload)
	assert.NotEmpty(t, msg.Timestamp)
	assert.Empty(t, msg.ReplyTo)

	other := types.NewRequest("caller", "echo-agent", payload)
	assert.NotEqual(t, msg.MessageID, other.MessageID)
}

func TestNewResponse_Correlation(t *testing.T) {
	request := types.NewRequest("caller", "echo-agent", map[string]any{"action": "echo"})

	response := types.NewResponse("echo-agent", request, map[string]any{"status": "success"})

	assert.Equal(t, types.MessageTypeResponse, response.Type)
	assert.Equal(t, request.MessageID, response.ReplyTo)
	assert.Equal(t, request.FromAgent, response.ToAgent)
	assert.Equal(t, "echo-agent", response.FromAgent)
	assert.NotEqual(t, request.MessageID, response.MessageID)
}

func TestNewErrorMessage_Correlation(t *testing.T) {
	request := types.NewRequest("caller", "echo-agent", map[string]any{"action": "echo"})

	errMsg := types.NewErrorMessage("echo-agent", request, "boom")

	assert.Equal(t, types.MessageTypeError, errMsg.Type)
	assert.Equal(t, request.MessageID, errMsg.ReplyTo)
	assert.Equal(t, request.FromAgent, errMsg.ToAgent)
	assert.Equal(t, map[string]any{"error": "boom"}, errMsg.Payload)
}

func TestMessage_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		message *types.Message
	}{
		{
			name:    "request without reply_to",
			message: types.NewRequest("caller", "echo-agent", map[string]any{"action": "echo", "text": "hi"}),
		},
		{
			name: "response with reply_to",
			message: &types.Message{
				MessageID: "msg-2",
				FromAgent: "echo-agent",
				ToAgent:   "caller",
				Type:      types.MessageTypeResponse,
				Payload:   map[string]any{"status": "success"},
				Timestamp: "2026-08-30T12:00:00Z",
				ReplyTo:   "msg-1",
			},
		},
		{
			name: "error envelope",
			message: &types.Message{
				MessageID: "msg-3",
				FromAgent: "echo-agent",
				ToAgent:   "caller",
				Type:      types.MessageTypeError,
				Payload:   map[string]any{"error": "boom"},
				Timestamp: "2026-08-30T12:00:00Z",
				ReplyTo:   "msg-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.message)
			require.NoError(t, err)

			var decoded types.Message
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, *tt.message, decoded)
		})
	}
}

func TestMessage_UnmarshalJSON_OmitsAbsentOptionalFields(t *testing.T) {
	request := types.NewRequest("caller", "echo-agent", map[string]any{"action": "echo"})

	data, err := json.Marshal(request)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "reply_to")
}

func TestMessage_UnmarshalJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown message_type",
			body: `{"message_id":"m1","from_agent":"a","to_agent":"b","message_type":"bogus","payload":{}}`,
		},
		{
			name: "missing message_type",
			body: `{"message_id":"m1","from_agent":"a","to_agent":"b","payload":{}}`,
		},
		{
			name: "missing message_id",
			body: `{"from_agent":"a","to_agent":"b","message_type":"request","payload":{}}`,
		},
		{
			name: "missing from_agent",
			body: `{"message_id":"m1","to_agent":"b","message_type":"request","payload":{}}`,
		},
		{
			name: "missing to_agent",
			body: `{"message_id":"m1","from_agent":"a","message_type":"request","payload":{}}`,
		},
		{
			name: "missing payload",
			body: `{"message_id":"m1","from_agent":"a","to_agent":"b","message_type":"request"}`,
		},
		{
			name: "wrong field type",
			body: `{"message_id":"m1","from_agent":"a","to_agent":"b","message_type":"request","payload":"text"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg types.Message
			err := json.Unmarshal([]byte(tt.body), &msg)
			require.Error(t, err)

			var malformed *types.MalformedMessageError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}
