package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlastravel/atlas/internal/destindex"
	mcpserver "github.com/atlastravel/atlas/internal/mcp"
	"github.com/atlastravel/atlas/internal/store"
	"github.com/atlastravel/atlas/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing saved
itineraries, the traveler profile, destination search, and weather
lookups to MCP-capable AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("opening data dir: %w", err)
		}

		index, err := destindex.New(context.Background(), createEmbedderFromConfig(cfg))
		if err != nil {
			return fmt.Errorf("building destination index: %w", err)
		}

		var weather *tools.WeatherTool
		if cfg.WeatherAPIKey != "" {
			weather = tools.NewWeatherTool(cfg.WeatherAPIKey, cfg.WeatherBaseURL, nil)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "atlas MCP server started on stdio (data=%s)\n", cfg.DataDir)

		srv := mcpserver.NewServer(st, index, weather)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
