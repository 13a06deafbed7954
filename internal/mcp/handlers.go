package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atlastravel/atlas/internal/export"
	"github.com/atlastravel/atlas/internal/store"
)

// handleSearchDestinations performs semantic search over the catalog.
func (s *Server) handleSearchDestinations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No destinations matched that query."), nil
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- **%s, %s**", r.Name, r.Country)
		if r.IATACode != "" {
			fmt.Fprintf(&b, " (%s)", r.IATACode)
		}
		fmt.Fprintf(&b, ": %s\n", r.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleListItineraries lists saved trips.
func (s *Server) handleListItineraries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trips, err := s.store.ListItineraries()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing itineraries failed: %v", err)), nil
	}
	if len(trips) == 0 {
		return mcp.NewToolResultText("No saved itineraries yet."), nil
	}

	var b strings.Builder
	for _, t := range trips {
		fmt.Fprintf(&b, "- %s: %s (%s to %s)\n", t.ID, t.Destination, t.StartDate, t.EndDate)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleGetItinerary renders one saved trip as markdown.
func (s *Server) handleGetItinerary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	it, err := s.store.LoadItinerary(id)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no saved itinerary with id %q", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading itinerary failed: %v", err)), nil
	}
	return mcp.NewToolResultText(export.Markdown(it)), nil
}

// handleGetUserProfile returns the stored preference profile.
func (s *Server) handleGetUserProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := s.store.LoadProfile()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading profile failed: %v", err)), nil
	}
	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding profile failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleGetWeather proxies the weather tool.
func (s *Server) handleGetWeather(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city, err := request.RequireString("city")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: city"), nil
	}
	date, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: date"), nil
	}

	payload, err := s.weather.Invoke(ctx, map[string]any{"city": city, "date": date})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("weather lookup failed: %v", err)), nil
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding forecast failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
