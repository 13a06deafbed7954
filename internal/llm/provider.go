package llm

import "context"

// Provider defines the interface for tool-calling chat model backends.
type Provider interface {
	// Chat sends the conversation and tool manifest to the model and
	// returns either terminal content or one or more tool calls.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Name returns the name of this provider.
	Name() string
}
