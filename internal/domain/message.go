package domain

import "time"

// MessageRole is the author of a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is one entry in a conversation transcript. Transcripts are
// append-only: a message is never modified after it is appended.
type Message struct {
	Role       MessageRole `json:"role"`
	Content    string      `json:"content,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"` // set on RoleTool messages
	Timestamp  time.Time   `json:"timestamp,omitempty"`
}

// ToolCall is a model-issued request to invoke a named tool. Immutable
// once issued; the ID correlates the call with its result message.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	RawArgs   string         `json:"raw_args,omitempty"` // arguments as the model emitted them
}

// ToolOutcome classifies how a tool invocation ended.
type ToolOutcome string

const (
	OutcomeSuccess  ToolOutcome = "success"
	OutcomeDegraded ToolOutcome = "degraded"
	OutcomeFailed   ToolOutcome = "failed"
)

// ToolFailureKind classifies a failed tool invocation.
type ToolFailureKind string

const (
	FailUnavailable     ToolFailureKind = "unavailable"
	FailInvalidInput    ToolFailureKind = "invalid_input"
	FailUpstreamError   ToolFailureKind = "upstream_error"
	FailUnauthenticated ToolFailureKind = "unauthenticated"
)

// ToolResult is the outcome of exactly one ToolCall, matched by CallID.
type ToolResult struct {
	CallID  string          `json:"call_id"`
	Outcome ToolOutcome     `json:"outcome"`
	Payload any             `json:"payload,omitempty"` // set on success
	Reason  string          `json:"reason,omitempty"`  // set on degraded
	Kind    ToolFailureKind `json:"kind,omitempty"`    // set on failed
	Detail  string          `json:"detail,omitempty"`  // set on failed
}

// Success builds a successful result for the given call.
func Success(callID string, payload any) ToolResult {
	return ToolResult{CallID: callID, Outcome: OutcomeSuccess, Payload: payload}
}

// Degraded builds a partial-data result. The loop continues with reduced
// information instead of aborting.
func Degraded(callID, reason string) ToolResult {
	return ToolResult{CallID: callID, Outcome: OutcomeDegraded, Reason: reason}
}

// Failed builds a classified failure result.
func Failed(callID string, kind ToolFailureKind, detail string) ToolResult {
	return ToolResult{CallID: callID, Outcome: OutcomeFailed, Kind: kind, Detail: detail}
}
