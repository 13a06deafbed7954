package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDestinationsTool defines the search_destinations MCP tool.
var searchDestinationsTool = mcp.NewTool("search_destinations",
	mcp.WithDescription("Search the destination catalog semantically. Returns matching destinations with country, coordinates, and a short description."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language description of the kind of trip, e.g. \"temples and street food\""),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// listItinerariesTool defines the list_itineraries MCP tool.
var listItinerariesTool = mcp.NewTool("list_itineraries",
	mcp.WithDescription("List saved itineraries with their ids, destinations, and date ranges."),
)

// getItineraryTool defines the get_itinerary MCP tool.
var getItineraryTool = mcp.NewTool("get_itinerary",
	mcp.WithDescription("Get a saved itinerary rendered as markdown."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Itinerary id from list_itineraries"),
	),
)

// getUserProfileTool defines the get_user_profile MCP tool.
var getUserProfileTool = mcp.NewTool("get_user_profile",
	mcp.WithDescription("Get the traveller's preference profile built from saved trips."),
)

// getWeatherTool defines the get_weather MCP tool.
var getWeatherTool = mcp.NewTool("get_weather",
	mcp.WithDescription("Get the weather forecast for a city on a date within roughly five days of today."),
	mcp.WithString("city",
		mcp.Required(),
		mcp.Description("City name"),
	),
	mcp.WithString("date",
		mcp.Required(),
		mcp.Description("Date in YYYY-MM-DD format"),
	),
)
