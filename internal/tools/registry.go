// Package tools implements the callable capabilities exposed to the
// model and the registry that dispatches calls to them. The registry is
// the failure boundary: whatever goes wrong underneath, the
// orchestration loop always receives a classified ToolResult, never a
// panic or an unclassified error.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/llm"
)

// Tool is a named capability with a declared argument schema. Invoke
// returns the success payload, or an error the registry classifies: a
// *domain.ToolError keeps its kind, a *Degradation becomes a degraded
// result, anything else is an upstream error.
type Tool interface {
	Definition() llm.ToolDefinition
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Degradation signals partial data rather than failure: the service was
// reachable but could not fully answer (forecast exists, the date does
// not). The loop continues with reduced information.
type Degradation struct {
	Reason string
}

func (d *Degradation) Error() string { return "degraded: " + d.Reason }

// Registry maps tool names to capabilities and dispatches model-issued
// calls with a bounded per-call timeout.
type Registry struct {
	tools   map[string]Tool
	timeout time.Duration
}

// NewRegistry returns an empty registry. A non-positive timeout
// disables the per-call deadline.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{tools: make(map[string]Tool), timeout: timeout}
}

// Register adds a tool under its declared name, replacing any previous
// registration.
func (r *Registry) Register(t Tool) {
	r.tools[t.Definition().Name] = t
}

// Definitions returns the manifest sent to the model, sorted by name so
// transcripts are reproducible.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Dispatch invokes the named tool and returns exactly one ToolResult
// for the call. It never returns an error: unknown names, malformed
// arguments, timeouts, and panics all come back classified.
func (r *Registry) Dispatch(ctx context.Context, call domain.ToolCall) (result domain.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = domain.Failed(call.ID, domain.FailUpstreamError, fmt.Sprintf("tool %s panicked: %v", call.Name, rec))
		}
	}()

	tool, ok := r.tools[call.Name]
	if !ok {
		return domain.Failed(call.ID, domain.FailInvalidInput, fmt.Sprintf("unknown tool %q", call.Name))
	}

	args := call.Arguments
	if args == nil && call.RawArgs != "" {
		if err := json.Unmarshal([]byte(call.RawArgs), &args); err != nil {
			return domain.Failed(call.ID, domain.FailInvalidInput, fmt.Sprintf("arguments are not a JSON object: %v", err))
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	payload, err := tool.Invoke(ctx, args)
	if err == nil {
		return domain.Success(call.ID, payload)
	}

	var deg *Degradation
	if errors.As(err, &deg) {
		return domain.Degraded(call.ID, deg.Reason)
	}
	var te *domain.ToolError
	if errors.As(err, &te) {
		return domain.Failed(call.ID, te.Kind, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.Failed(call.ID, domain.FailUnavailable, fmt.Sprintf("tool %s timed out after %s", call.Name, r.timeout))
	}
	return domain.Failed(call.ID, domain.FailUpstreamError, err.Error())
}

// decodeArgs re-marshals the loose argument map into a typed struct.
// Type mismatches are the model's fault and classify as invalid input.
func decodeArgs(tool string, args map[string]any, into any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return &domain.ToolError{Tool: tool, Kind: domain.FailInvalidInput, Err: err}
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return &domain.ToolError{Tool: tool, Kind: domain.FailInvalidInput, Err: err}
	}
	return nil
}

func requireString(tool string, args map[string]any, field string) (string, error) {
	v, ok := args[field]
	if !ok {
		return "", &domain.ToolError{Tool: tool, Kind: domain.FailInvalidInput, Err: fmt.Errorf("missing required argument %q", field)}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &domain.ToolError{Tool: tool, Kind: domain.FailInvalidInput, Err: fmt.Errorf("argument %q must be a non-empty string", field)}
	}
	return s, nil
}
