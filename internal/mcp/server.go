// Package mcp exposes the travel data tools over the Model Context
// Protocol so external assistants can query saved trips, the
// destination index, and weather.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/atlastravel/atlas/internal/destindex"
	"github.com/atlastravel/atlas/internal/store"
	"github.com/atlastravel/atlas/internal/tools"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the travel tools.
type Server struct {
	store   *store.Store
	index   *destindex.Store
	weather *tools.WeatherTool
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
// weather may be nil when no API key is configured; the tool is then
// not registered.
func NewServer(st *store.Store, index *destindex.Store, weather *tools.WeatherTool) *Server {
	s := &Server{store: st, index: index, weather: weather}

	s.mcp = server.NewMCPServer(
		"atlas",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDestinationsTool, s.handleSearchDestinations)
	s.mcp.AddTool(listItinerariesTool, s.handleListItineraries)
	s.mcp.AddTool(getItineraryTool, s.handleGetItinerary)
	s.mcp.AddTool(getUserProfileTool, s.handleGetUserProfile)
	if s.weather != nil {
		s.mcp.AddTool(getWeatherTool, s.handleGetWeather)
	}
}

// Serve starts the MCP server on stdio. Stdout carries protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
