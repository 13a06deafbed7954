package tools

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/atlastravel/atlas/internal/destindex"
	"github.com/atlastravel/atlas/internal/llm"
)

// SearchTool answers destination queries from the semantic index. An
// index failure yields an empty list so the conversation can continue;
// the model is told no matches were found rather than shown an error.
type SearchTool struct {
	index *destindex.Store
}

func NewSearchTool(index *destindex.Store) *SearchTool {
	return &SearchTool{index: index}
}

func (t *SearchTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "search_destinations",
		Description: "Search for travel destinations matching a free-text query, e.g. \"temples and street food in asia\". Returns up to five destination summaries.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query": {Type: jsonschema.String, Description: "What the traveller is looking for"},
			},
			Required: []string{"query"},
		},
	}
}

func (t *SearchTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	query, err := requireString("search_destinations", args, "query")
	if err != nil {
		return nil, err
	}
	results, err := t.index.Search(ctx, query, 5)
	if err != nil || results == nil {
		return []destindex.Summary{}, nil
	}
	return results, nil
}
