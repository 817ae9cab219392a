package server

import (
	"context"

	types "github.com/agentic-mesh/a2a/types"
)

// MessageHandler is the extension point between the messaging core and
// agent-specific logic. It turns one inbound envelope into a result payload.
//
// Implementations must be safe for concurrent invocation: the server
// dispatches one goroutine per inbound request and imposes no internal
// timeout on handler execution. By convention the returned payload carries a
// "status" key of "success" or "error"; the core transports that convention
// verbatim without validating it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message *types.Message) (map[string]any, error)
}

// MessageHandlerFunc adapts a plain function to the MessageHandler interface.
type MessageHandlerFunc func(ctx context.Context, message *types.Message) (map[string]any, error)

// HandleMessage calls f(ctx, message)
func (f MessageHandlerFunc) HandleMessage(ctx context.Context, message *types.Message) (map[string]any, error) {
	return f(ctx, message)
}
