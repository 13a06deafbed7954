package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/llm"
	"github.com/atlastravel/atlas/internal/tools"
)

// scriptedProvider replays a fixed sequence of model responses and
// records every request it saw.
type scriptedProvider struct {
	mu       sync.Mutex
	script   []llm.ChatResponse
	requests []llm.ChatRequest
	block    chan struct{} // when set, Chat waits before responding
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if len(p.script) == 0 {
		return nil, errors.New("script exhausted")
	}
	resp := p.script[0]
	p.script = p.script[1:]
	return &resp, nil
}

type fakeTool struct {
	name   string
	invoke func(ctx context.Context, args map[string]any) (any, error)
}

func (f *fakeTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{Name: f.name, Parameters: jsonschema.Definition{Type: jsonschema.Object}}
}

func (f *fakeTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f.invoke(ctx, args)
}

func userTurn(text string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: "test system"},
		{Role: domain.RoleUser, Content: text},
	}
}

func TestRunTerminalContent(t *testing.T) {
	provider := &scriptedProvider{script: []llm.ChatResponse{{Content: "Here is your trip."}}}
	engine := NewEngine(provider, tools.NewRegistry(0), "test-model", 4)

	result, err := engine.Run(context.Background(), userTurn("plan a trip"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Content != "Here is your trip." || result.Turns != 1 {
		t.Fatalf("result = %+v", result)
	}
	last := result.Messages[len(result.Messages)-1]
	if last.Role != domain.RoleAssistant || last.Content != "Here is your trip." {
		t.Fatalf("terminal message = %+v", last)
	}
}

func TestRunDispatchesToolsThenContinues(t *testing.T) {
	provider := &scriptedProvider{script: []llm.ChatResponse{
		{ToolCalls: []domain.ToolCall{
			{ID: "call-1", Name: "lookup", Arguments: map[string]any{"q": "kyoto"}},
		}},
		{Content: "done"},
	}}
	reg := tools.NewRegistry(0)
	reg.Register(&fakeTool{name: "lookup", invoke: func(_ context.Context, args map[string]any) (any, error) {
		return map[string]string{"answer": "found " + args["q"].(string)}, nil
	}})
	engine := NewEngine(provider, reg, "test-model", 4)

	result, err := engine.Run(context.Background(), userTurn("plan"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Turns != 2 {
		t.Fatalf("turns = %d, want 2", result.Turns)
	}

	// history(2) + assistant w/ calls + tool result + terminal assistant
	if len(result.Messages) != 5 {
		t.Fatalf("transcript has %d messages: %+v", len(result.Messages), result.Messages)
	}
	toolMsg := result.Messages[3]
	if toolMsg.Role != domain.RoleTool || toolMsg.ToolCallID != "call-1" {
		t.Fatalf("tool message = %+v", toolMsg)
	}
	if !strings.Contains(toolMsg.Content, "found kyoto") {
		t.Fatalf("tool message content = %q", toolMsg.Content)
	}

	// second model request must include the appended tool message
	second := provider.requests[1]
	if len(second.Messages) != 4 {
		t.Fatalf("second request carries %d messages, want 4", len(second.Messages))
	}
}

// Sibling results must land in the order the model requested them, even
// when the first tool finishes last.
func TestRunRejoinsSiblingResultsInRequestOrder(t *testing.T) {
	provider := &scriptedProvider{script: []llm.ChatResponse{
		{ToolCalls: []domain.ToolCall{
			{ID: "call-slow", Name: "slow"},
			{ID: "call-fast", Name: "fast"},
		}},
		{Content: "done"},
	}}
	reg := tools.NewRegistry(0)
	reg.Register(&fakeTool{name: "slow", invoke: func(_ context.Context, _ map[string]any) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return "slow result", nil
	}})
	reg.Register(&fakeTool{name: "fast", invoke: func(_ context.Context, _ map[string]any) (any, error) {
		return "fast result", nil
	}})
	engine := NewEngine(provider, reg, "test-model", 4)

	result, err := engine.Run(context.Background(), userTurn("plan"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := result.Messages[3].ToolCallID; got != "call-slow" {
		t.Fatalf("first tool message is %s, want call-slow", got)
	}
	if got := result.Messages[4].ToolCallID; got != "call-fast" {
		t.Fatalf("second tool message is %s, want call-fast", got)
	}
}

func TestRunToolFailureDoesNotAbortSiblings(t *testing.T) {
	provider := &scriptedProvider{script: []llm.ChatResponse{
		{ToolCalls: []domain.ToolCall{
			{ID: "call-bad", Name: "bad"},
			{ID: "call-good", Name: "good"},
		}},
		{Content: "done"},
	}}
	reg := tools.NewRegistry(0)
	reg.Register(&fakeTool{name: "bad", invoke: func(_ context.Context, _ map[string]any) (any, error) {
		return nil, &domain.ToolError{Tool: "bad", Kind: domain.FailUpstreamError, Err: errors.New("boom")}
	}})
	reg.Register(&fakeTool{name: "good", invoke: func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	}})
	engine := NewEngine(provider, reg, "test-model", 4)

	result, err := engine.Run(context.Background(), userTurn("plan"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var failure map[string]string
	if err := json.Unmarshal([]byte(result.Messages[3].Content), &failure); err != nil {
		t.Fatalf("failure message not JSON: %v", err)
	}
	if failure["status"] != "error" || failure["kind"] != "upstream_error" {
		t.Fatalf("failure message = %v", failure)
	}
	if !strings.Contains(result.Messages[4].Content, "ok") {
		t.Fatalf("sibling result lost: %q", result.Messages[4].Content)
	}
}

func TestRunExhaustsTurnCeiling(t *testing.T) {
	// The model asks for a tool on every turn and never terminates.
	endless := llm.ChatResponse{ToolCalls: []domain.ToolCall{{ID: "c", Name: "noop"}}}
	provider := &scriptedProvider{script: []llm.ChatResponse{endless, endless, endless}}
	reg := tools.NewRegistry(0)
	reg.Register(&fakeTool{name: "noop", invoke: func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	}})
	engine := NewEngine(provider, reg, "test-model", 3)

	_, err := engine.Run(context.Background(), userTurn("plan"))
	var exhausted *domain.OrchestrationExhausted
	if !errors.As(err, &exhausted) || exhausted.MaxTurns != 3 {
		t.Fatalf("err = %v, want OrchestrationExhausted{3}", err)
	}
}

func TestRunIsNotReentrant(t *testing.T) {
	provider := &scriptedProvider{
		script: []llm.ChatResponse{{Content: "done"}},
		block:  make(chan struct{}),
	}
	engine := NewEngine(provider, tools.NewRegistry(0), "test-model", 2)

	done := make(chan error, 1)
	go func() {
		_, err := engine.Run(context.Background(), userTurn("first"))
		done <- err
	}()

	// Wait for the first run to be inside the model call.
	time.Sleep(20 * time.Millisecond)
	if _, err := engine.Run(context.Background(), userTurn("second")); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}

	close(provider.block)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

// blockFirstProvider blocks its first Chat call until released; later
// calls answer immediately.
type blockFirstProvider struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (p *blockFirstProvider) Name() string { return "block-first" }

func (p *blockFirstProvider) Chat(ctx context.Context, _ llm.ChatRequest) (*llm.ChatResponse, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()
	if first {
		close(p.entered)
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &llm.ChatResponse{Content: "done"}, nil
}

// A clone is a separate session: its runs must not contend with runs
// still in flight on the original engine.
func TestCloneRunsIndependently(t *testing.T) {
	provider := &blockFirstProvider{entered: make(chan struct{}), release: make(chan struct{})}
	engine := NewEngine(provider, tools.NewRegistry(0), "test-model", 2)

	done := make(chan error, 1)
	go func() {
		_, err := engine.Run(context.Background(), userTurn("first"))
		done <- err
	}()
	<-provider.entered

	result, err := engine.Clone().Run(context.Background(), userTurn("second"))
	if err != nil {
		t.Fatalf("clone run while original busy: %v", err)
	}
	if result.Content != "done" {
		t.Fatalf("clone result = %+v", result)
	}

	close(provider.release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

func TestRunDoesNotMutateInputHistory(t *testing.T) {
	provider := &scriptedProvider{script: []llm.ChatResponse{{Content: "done"}}}
	engine := NewEngine(provider, tools.NewRegistry(0), "test-model", 2)

	history := userTurn("plan")
	before := len(history)
	if _, err := engine.Run(context.Background(), history); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(history) != before {
		t.Fatalf("input history grew to %d messages", len(history))
	}
}

func TestSystemMessageIncludesProfileSummary(t *testing.T) {
	budget := 1800.0
	msg := SystemMessage(domain.UserProfile{
		TripCount:           2,
		PastDestinations:    []string{"Kyoto", "Lisbon"},
		FavouriteCategories: []string{"food"},
		PreferredPace:       domain.PaceRelaxed,
		TypicalBudgetUSD:    &budget,
	})
	for _, want := range []string{"Kyoto, Lisbon", "food", "relaxed", "$1800"} {
		if !strings.Contains(msg.Content, want) {
			t.Errorf("system message missing %q", want)
		}
	}
}

func TestSystemMessageOmitsEmptyProfile(t *testing.T) {
	msg := SystemMessage(domain.DefaultProfile())
	if strings.Contains(msg.Content, "Traveller profile") {
		t.Fatal("fresh profile should not add a profile section")
	}
}
