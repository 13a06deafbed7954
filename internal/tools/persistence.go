package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/llm"
	"github.com/atlastravel/atlas/internal/profile"
	"github.com/atlastravel/atlas/internal/store"
)

// The persistence tools are the only filesystem I/O reachable from the
// model. They share one Store so every write goes through its atomic
// write-then-rename path.

// SaveConfirmation is returned to the model after a successful save.
type SaveConfirmation struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
	Days  int    `json:"days"`
}

// SaveItineraryTool persists an itinerary and returns its identifier.
type SaveItineraryTool struct {
	store *store.Store
}

func NewSaveItineraryTool(s *store.Store) *SaveItineraryTool {
	return &SaveItineraryTool{store: s}
}

func (t *SaveItineraryTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "save_itinerary",
		Description: "Save a completed itinerary so the traveller can load it later. Returns the saved itinerary's id.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"itinerary": {Type: jsonschema.Object, Description: "The complete itinerary object to save"},
			},
			Required: []string{"itinerary"},
		},
	}
}

func (t *SaveItineraryTool) Invoke(_ context.Context, args map[string]any) (any, error) {
	var payload struct {
		Itinerary domain.Itinerary `json:"itinerary"`
	}
	if err := decodeArgs("save_itinerary", args, &payload); err != nil {
		return nil, err
	}
	if payload.Itinerary.Destination.Name == "" {
		return nil, &domain.ToolError{
			Tool: "save_itinerary",
			Kind: domain.FailInvalidInput,
			Err:  fmt.Errorf("itinerary has no destination"),
		}
	}
	saved, err := t.store.SaveItinerary(payload.Itinerary)
	if err != nil {
		return nil, &domain.ToolError{Tool: "save_itinerary", Kind: domain.FailUpstreamError, Err: err}
	}
	return SaveConfirmation{ID: saved.ID, Saved: true, Days: len(saved.Days)}, nil
}

// LoadItineraryTool loads a previously saved itinerary by id. A missing
// id is degraded, not failed: the model should tell the traveller the
// trip was not found and move on.
type LoadItineraryTool struct {
	store *store.Store
}

func NewLoadItineraryTool(s *store.Store) *LoadItineraryTool {
	return &LoadItineraryTool{store: s}
}

func (t *LoadItineraryTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "load_itinerary",
		Description: "Load a previously saved itinerary by its id.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"id": {Type: jsonschema.String, Description: "Identifier returned by save_itinerary"},
			},
			Required: []string{"id"},
		},
	}
}

func (t *LoadItineraryTool) Invoke(_ context.Context, args map[string]any) (any, error) {
	id, err := requireString("load_itinerary", args, "id")
	if err != nil {
		return nil, err
	}
	it, err := t.store.LoadItinerary(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &Degradation{Reason: fmt.Sprintf("no saved itinerary with id %q", id)}
	}
	if err != nil {
		return nil, &domain.ToolError{Tool: "load_itinerary", Kind: domain.FailUpstreamError, Err: err}
	}
	return it, nil
}

// LoadProfileTool returns the traveller's preference profile, or the
// defaults when nothing has been saved yet.
type LoadProfileTool struct {
	store *store.Store
}

func NewLoadProfileTool(s *store.Store) *LoadProfileTool {
	return &LoadProfileTool{store: s}
}

func (t *LoadProfileTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "load_user_profile",
		Description: "Load the traveller's preference profile built from previously saved trips.",
		Parameters:  jsonschema.Definition{Type: jsonschema.Object, Properties: map[string]jsonschema.Definition{}},
	}
}

func (t *LoadProfileTool) Invoke(_ context.Context, _ map[string]any) (any, error) {
	p, err := t.store.LoadProfile()
	if err != nil {
		return nil, &domain.ToolError{Tool: "load_user_profile", Kind: domain.FailUpstreamError, Err: err}
	}
	return p, nil
}

// UpdateProfileTool folds an itinerary into the stored profile and
// returns the updated profile.
type UpdateProfileTool struct {
	store *store.Store
}

func NewUpdateProfileTool(s *store.Store) *UpdateProfileTool {
	return &UpdateProfileTool{store: s}
}

func (t *UpdateProfileTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "update_user_profile",
		Description: "Record a saved trip in the traveller's preference profile. Call after save_itinerary.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"itinerary": {Type: jsonschema.Object, Description: "The itinerary that was just saved"},
			},
			Required: []string{"itinerary"},
		},
	}
}

func (t *UpdateProfileTool) Invoke(_ context.Context, args map[string]any) (any, error) {
	var payload struct {
		Itinerary domain.Itinerary `json:"itinerary"`
	}
	if err := decodeArgs("update_user_profile", args, &payload); err != nil {
		return nil, err
	}
	prev, err := t.store.LoadProfile()
	if err != nil {
		return nil, &domain.ToolError{Tool: "update_user_profile", Kind: domain.FailUpstreamError, Err: err}
	}
	next := profile.Aggregate(prev, payload.Itinerary)
	if err := t.store.SaveProfile(next); err != nil {
		return nil, &domain.ToolError{Tool: "update_user_profile", Kind: domain.FailUpstreamError, Err: err}
	}
	return next, nil
}
