package llm

import (
	"context"
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"github.com/atlastravel/atlas/internal/domain"
)

// OpenAIProvider implements Provider using the OpenAI Chat Completions API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return completeChat(ctx, p.client, p.model, req)
}

// completeChat is shared by the OpenAI and OpenRouter providers, which
// speak the same wire protocol.
func completeChat(ctx context.Context, client *openai.Client, defaultModel string, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toAPIMessages(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
		Tools:       toAPITools(req.Tools),
	}

	if req.JSONMode {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	out := &ChatResponse{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
	}

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		out.Content = choice.Message.Content
		out.FinishReason = string(choice.FinishReason)
		out.ToolCalls = fromAPIToolCalls(choice.Message.ToolCalls)
	}

	return out, nil
}

func toAPIMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	var out []openai.ChatCompletionMessage
	for _, msg := range messages {
		apiMsg := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			args := call.RawArgs
			if args == "" {
				encoded, err := json.Marshal(call.Arguments)
				if err == nil {
					args = string(encoded)
				}
			}
			apiMsg.ToolCalls = append(apiMsg.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: args,
				},
			})
		}
		out = append(out, apiMsg)
	}
	return out
}

func toAPITools(tools []ToolDefinition) []openai.Tool {
	var out []openai.Tool
	for _, t := range tools {
		def := t
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return out
}

func fromAPIToolCalls(calls []openai.ToolCall) []domain.ToolCall {
	var out []domain.ToolCall
	for _, call := range calls {
		dc := domain.ToolCall{
			ID:      call.ID,
			Name:    call.Function.Name,
			RawArgs: call.Function.Arguments,
		}
		// Malformed argument JSON is left for the registry to classify
		// as invalid_input; the raw string is always preserved.
		var args map[string]any
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err == nil {
			dc.Arguments = args
		}
		out = append(out, dc)
	}
	return out
}
