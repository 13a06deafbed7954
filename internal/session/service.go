// Package session is the single entry point the CLI and HTTP layers
// call. It wires the orchestration engine, the schema validator, the
// merger, and the profile aggregator into two operations: generate an
// itinerary and save one.
package session

import (
	"context"
	"fmt"

	"github.com/atlastravel/atlas/internal/agent"
	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/planner"
	"github.com/atlastravel/atlas/internal/profile"
	"github.com/atlastravel/atlas/internal/schema"
	"github.com/atlastravel/atlas/internal/store"
)

// Engine is the slice of the orchestration loop the façade needs.
// *agent.Engine satisfies it; tests script it directly.
type Engine interface {
	Run(ctx context.Context, history []domain.Message) (*agent.RunResult, error)
}

// EngineFactory yields an engine for one independent session. Engines
// are non-reentrant, so concurrent sessions must not share one.
type EngineFactory func() Engine

// Service owns one store per process and an engine source. With the
// default single-engine source the façade serves one session at a
// time; servers install a factory so sessions run concurrently.
type Service struct {
	engines           EngineFactory
	store             *store.Store
	maxRepairAttempts int
	historyLimit      int
}

// Option configures a Service.
type Option func(*Service)

// WithRepairAttempts overrides the structured-output repair budget.
func WithRepairAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRepairAttempts = n
		}
	}
}

// WithHistoryLimit caps how many prior messages are replayed to the
// model per request. Zero disables the cap.
func WithHistoryLimit(n int) Option {
	return func(s *Service) { s.historyLimit = n }
}

// WithEngineFactory makes every GenerateItinerary call run on its own
// engine, e.g. (*agent.Engine).Clone, so independent sessions never
// contend on one run guard.
func WithEngineFactory(f EngineFactory) Option {
	return func(s *Service) {
		if f != nil {
			s.engines = f
		}
	}
}

// New builds the façade. Defaults: 2 repair attempts, last 20 prior
// messages.
func New(engine Engine, st *store.Store, opts ...Option) *Service {
	s := &Service{engines: func() Engine { return engine }, store: st, maxRepairAttempts: 2, historyLimit: 20}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateItinerary runs one planning turn. With no partial itinerary
// the model is asked for the complete trip; with one, only the gap
// dates are generated and merged around the user's fixed days.
//
// Errors are always typed: StructuredOutputError when the model cannot
// produce valid structure within the repair budget, ContinuityViolation
// when generated days cannot be merged, OrchestrationExhausted when the
// turn ceiling is hit.
func (s *Service) GenerateItinerary(ctx context.Context, inputText string, chatHistory []domain.Message, partial *domain.Itinerary, prof domain.UserProfile) (domain.Itinerary, error) {
	base := []domain.Message{agent.SystemMessage(prof)}
	base = append(base, tail(chatHistory, s.historyLimit)...)

	eng := s.engines()
	if partial == nil || len(partial.Days) == 0 && partial.Destination.Name == "" {
		return s.generateFull(ctx, eng, base, inputText)
	}
	return s.generateGapFill(ctx, eng, base, inputText, *partial)
}

func (s *Service) generateFull(ctx context.Context, eng Engine, base []domain.Message, inputText string) (domain.Itinerary, error) {
	var it domain.Itinerary
	err := s.structuredRun(ctx, eng, base, agent.ItineraryRequest(inputText), false, func(content string) []string {
		parsed, diags := schema.ParseItinerary(content)
		if len(diags) == 0 {
			it = parsed
		}
		return diags
	})
	return it, err
}

func (s *Service) generateGapFill(ctx context.Context, eng Engine, base []domain.Message, inputText string, partial domain.Itinerary) (domain.Itinerary, error) {
	gaps := planner.GapSet(partial)
	if len(gaps) == 0 {
		// Every trip date is user-covered; nothing to generate.
		result, err := planner.Merge(partial, nil)
		if err != nil {
			return domain.Itinerary{}, err
		}
		return result.Itinerary, nil
	}

	fixed := userDays(partial)
	days, err := s.requestDays(ctx, eng, base, agent.GapFillRequest(inputText, fixed, gaps))
	if err != nil {
		return domain.Itinerary{}, err
	}

	result, err := planner.Merge(partial, days)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if result.Complete() {
		return result.Itinerary, nil
	}

	// One regeneration round for dates that were discarded or skipped.
	retry := fmt.Sprintf("The previous response left some dates unplanned. %s", inputText)
	moreDays, err := s.requestDays(ctx, eng, base, agent.GapFillRequest(retry, fixed, result.Missing))
	if err != nil {
		return domain.Itinerary{}, err
	}
	combined := append(append([]domain.ItineraryDay(nil), keptDays(days, result.Missing)...), moreDays...)
	result, err = planner.Merge(partial, combined)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if !result.Complete() {
		return domain.Itinerary{}, &domain.ContinuityViolation{
			Detail: fmt.Sprintf("dates still unplanned after regeneration: %v", result.Missing),
		}
	}
	return result.Itinerary, nil
}

func (s *Service) requestDays(ctx context.Context, eng Engine, base []domain.Message, request string) ([]domain.ItineraryDay, error) {
	var days []domain.ItineraryDay
	err := s.structuredRun(ctx, eng, base, request, true, func(content string) []string {
		parsed, diags := schema.ParseDays(content)
		if len(diags) == 0 {
			days = parsed
		}
		return diags
	})
	return days, err
}

// structuredRun drives the engine until parse accepts the terminal
// content or the repair budget runs out. parse returns diagnostics;
// empty means accepted.
func (s *Service) structuredRun(ctx context.Context, eng Engine, base []domain.Message, request string, daysOnly bool, parse func(content string) []string) error {
	messages := append(append([]domain.Message(nil), base...), domain.Message{
		Role:    domain.RoleUser,
		Content: request,
	})

	var lastContent string
	var lastDiags []string
	for attempt := 1; attempt <= s.maxRepairAttempts; attempt++ {
		result, err := eng.Run(ctx, messages)
		if err != nil {
			return err
		}
		lastContent = result.Content
		lastDiags = parse(result.Content)
		if len(lastDiags) == 0 {
			return nil
		}
		// Carry the full transcript forward so the model sees its own
		// rejected answer next to the corrective instruction.
		messages = append(result.Messages, domain.Message{
			Role:    domain.RoleUser,
			Content: schema.RepairPrompt(lastDiags, daysOnly),
		})
	}
	return &domain.StructuredOutputError{
		Attempts:    s.maxRepairAttempts,
		RawContent:  lastContent,
		Diagnostics: lastDiags,
	}
}

// Save persists the itinerary, folds it into the stored profile, and
// returns the updated profile.
func (s *Service) Save(_ context.Context, it domain.Itinerary) (domain.UserProfile, error) {
	saved, err := s.store.SaveItinerary(it)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("save itinerary: %w", err)
	}
	prev, err := s.store.LoadProfile()
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	next := profile.Aggregate(prev, saved)
	if err := s.store.SaveProfile(next); err != nil {
		return domain.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}
	return next, nil
}

// Profile returns the stored profile, defaults included.
func (s *Service) Profile() (domain.UserProfile, error) {
	return s.store.LoadProfile()
}

func userDays(it domain.Itinerary) []domain.ItineraryDay {
	var days []domain.ItineraryDay
	for _, d := range it.Days {
		if d.Source == domain.SourceUser {
			days = append(days, d)
		}
	}
	return days
}

// keptDays filters the first generation round down to days whose dates
// were accepted (not listed as missing).
func keptDays(days []domain.ItineraryDay, missing []domain.Date) []domain.ItineraryDay {
	gone := make(map[string]bool, len(missing))
	for _, d := range missing {
		gone[d.String()] = true
	}
	var kept []domain.ItineraryDay
	for _, d := range days {
		if !gone[d.Date.String()] {
			kept = append(kept, d)
		}
	}
	return kept
}

// tail returns the last n messages, or all of them when n <= 0.
func tail(messages []domain.Message, n int) []domain.Message {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
