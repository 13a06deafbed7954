package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or invalid startup requirement,
// such as an absent model credential. It is fatal at process start and
// never raised per-turn.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Setting, e.Reason)
}

// ToolError reports a classified tool failure. The orchestration loop
// recovers from these locally; they never abort a turn.
type ToolError struct {
	Tool string
	Kind ToolFailureKind
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s: %v", e.Tool, e.Kind, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// StructuredOutputError is surfaced when the model's terminal content
// still fails schema validation after all repair attempts. The last raw
// content and the validation diagnostics are preserved for the caller.
type StructuredOutputError struct {
	Attempts    int
	RawContent  string
	Diagnostics []string
}

func (e *StructuredOutputError) Error() string {
	return fmt.Sprintf("structured output invalid after %d repair attempts: %s",
		e.Attempts, strings.Join(e.Diagnostics, "; "))
}

// ContinuityViolation is surfaced when merging generated days would drop,
// duplicate, or rewrite a user-supplied day, or leave the trip range
// uncovered.
type ContinuityViolation struct {
	Detail string
}

func (e *ContinuityViolation) Error() string {
	return "continuity violation: " + e.Detail
}

// OrchestrationExhausted is surfaced when the turn loop hits its
// configured turn ceiling. It is a runaway-loop guard, not a crash.
type OrchestrationExhausted struct {
	MaxTurns int
}

func (e *OrchestrationExhausted) Error() string {
	return fmt.Sprintf("orchestration exhausted after %d turns", e.MaxTurns)
}
