package llm

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/atlastravel/atlas/internal/domain"
)

// ToolDefinition declares a callable capability in the manifest sent to
// the model. Parameters is a JSON schema describing the argument object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
}

// ChatRequest contains the parameters for one model turn.
type ChatRequest struct {
	Model       string
	Messages    []domain.Message
	Tools       []ToolDefinition
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// ChatResponse contains the result of one model turn. ToolCalls is
// non-empty when the model wants tools invoked before it can answer;
// otherwise Content is the terminal reply.
type ChatResponse struct {
	Content      string
	ToolCalls    []domain.ToolCall
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
