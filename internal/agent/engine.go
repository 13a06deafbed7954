// Package agent runs the turn-by-turn loop between the model and the
// tool registry. All loop state lives in the message sequence, so a run
// can be replayed or tested by scripting model responses.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/llm"
	"github.com/atlastravel/atlas/internal/tools"
)

// ErrBusy is returned when a second run is started while one is still
// in flight. The loop is not re-entrant; callers serialize turns per
// session.
var ErrBusy = errors.New("agent: a run is already in progress")

// Engine drives one conversation turn to completion: it calls the model
// with the accumulated history and the tool manifest, dispatches any
// requested tool calls, and repeats until the model answers with plain
// content or the turn ceiling is hit.
//
// An Engine serves one session: concurrent Run calls on the same value
// get ErrBusy. Independent sessions each take their own Clone.
type Engine struct {
	provider llm.Provider
	registry *tools.Registry
	model    string
	maxTurns int

	mu sync.Mutex
}

// NewEngine wires the loop. maxTurns bounds model invocations per run;
// values below 1 are coerced to 1.
func NewEngine(provider llm.Provider, registry *tools.Registry, model string, maxTurns int) *Engine {
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &Engine{provider: provider, registry: registry, model: model, maxTurns: maxTurns}
}

// Clone returns an engine for a new independent session. The provider,
// registry, and limits are shared; only the run guard is fresh, so runs
// on the clone never contend with runs on the original.
func (e *Engine) Clone() *Engine {
	return &Engine{provider: e.provider, registry: e.registry, model: e.model, maxTurns: e.maxTurns}
}

// RunResult is the transcript outcome of one completed run.
type RunResult struct {
	// Content is the model's terminal reply.
	Content string
	// Messages is the full transcript: the input history plus every
	// assistant and tool message appended during the run.
	Messages []domain.Message
	// Turns is the number of model invocations consumed.
	Turns int
}

// Run executes the loop over the given history and returns the
// terminal content. The input slice is not mutated. Exceeding the turn
// ceiling returns OrchestrationExhausted with the transcript discarded.
func (e *Engine) Run(ctx context.Context, history []domain.Message) (*RunResult, error) {
	if !e.mu.TryLock() {
		return nil, ErrBusy
	}
	defer e.mu.Unlock()

	messages := append([]domain.Message(nil), history...)
	manifest := e.registry.Definitions()

	for turn := 1; turn <= e.maxTurns; turn++ {
		resp, err := e.provider.Chat(ctx, llm.ChatRequest{
			Model:    e.model,
			Messages: messages,
			Tools:    manifest,
		})
		if err != nil {
			return nil, fmt.Errorf("model turn %d: %w", turn, err)
		}

		if len(resp.ToolCalls) == 0 {
			messages = append(messages, domain.Message{
				Role:    domain.RoleAssistant,
				Content: resp.Content,
			})
			return &RunResult{Content: resp.Content, Messages: messages, Turns: turn}, nil
		}

		messages = append(messages, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, result := range e.dispatchAll(ctx, resp.ToolCalls) {
			messages = append(messages, toolMessage(result))
		}
	}
	return nil, &domain.OrchestrationExhausted{MaxTurns: e.maxTurns}
}

// dispatchAll invokes sibling calls concurrently and returns results in
// the order the model requested them, keeping transcripts reproducible.
func (e *Engine) dispatchAll(ctx context.Context, calls []domain.ToolCall) []domain.ToolResult {
	results := make([]domain.ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call domain.ToolCall) {
			defer wg.Done()
			results[i] = e.registry.Dispatch(ctx, call)
		}(i, call)
	}
	wg.Wait()
	return results
}

// toolMessage renders a ToolResult as the tool-role message fed back to
// the model. Failures become structured notices, not raw errors, so the
// model can explain the gap to the traveller and keep planning.
func toolMessage(result domain.ToolResult) domain.Message {
	var body any
	switch result.Outcome {
	case domain.OutcomeSuccess:
		body = result.Payload
	case domain.OutcomeDegraded:
		body = map[string]string{"status": "degraded", "reason": result.Reason}
	default:
		body = map[string]string{"status": "error", "kind": string(result.Kind), "detail": result.Detail}
	}
	content, err := json.Marshal(body)
	if err != nil {
		content = []byte(fmt.Sprintf(`{"status": "error", "detail": %q}`, err.Error()))
	}
	return domain.Message{
		Role:       domain.RoleTool,
		Content:    string(content),
		ToolCallID: result.CallID,
	}
}
