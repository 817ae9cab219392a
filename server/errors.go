package server

// NoHandlerConfiguredError represents a server started without a message handler
type NoHandlerConfiguredError struct{}

func (e *NoHandlerConfiguredError) Error() string {
	return "no message handler configured"
}

// NewNoHandlerConfiguredError creates a new NoHandlerConfiguredError
func NewNoHandlerConfiguredError() error {
	return &NoHandlerConfiguredError{}
}

// NoAgentInfoConfiguredError represents a server started without agent info
type NoAgentInfoConfiguredError struct{}

func (e *NoAgentInfoConfiguredError) Error() string {
	return "no agent info configured"
}

// NewNoAgentInfoConfiguredError creates a new NoAgentInfoConfiguredError
func NewNoAgentInfoConfiguredError() error {
	return &NoAgentInfoConfiguredError{}
}
