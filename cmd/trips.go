package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlastravel/atlas/internal/export"
	"github.com/atlastravel/atlas/internal/store"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List and inspect saved itineraries",
}

var tripsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved itineraries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		trips, err := st.ListItineraries()
		if err != nil {
			return fmt.Errorf("listing itineraries: %w", err)
		}
		if len(trips) == 0 {
			fmt.Println("No saved trips yet.")
			return nil
		}
		for _, t := range trips {
			fmt.Printf("%s  %-24s %s to %s (%d days)\n",
				t.ID, t.Destination, t.StartDate, t.EndDate, t.Days)
		}
		return nil
	},
}

var tripsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved itinerary as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		it, err := st.LoadItinerary(args[0])
		if err != nil {
			return fmt.Errorf("loading itinerary %s: %w", args[0], err)
		}
		fmt.Println(export.Markdown(it))
		return nil
	},
}

var tripsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved itinerary to a markdown or HTML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		it, err := st.LoadItinerary(args[0])
		if err != nil {
			return fmt.Errorf("loading itinerary %s: %w", args[0], err)
		}

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		var data []byte
		switch format {
		case "md", "markdown":
			data = []byte(export.Markdown(it))
			if outPath == "" {
				outPath = args[0] + ".md"
			}
		case "html":
			data, err = export.HTML(it)
			if err != nil {
				return fmt.Errorf("rendering HTML: %w", err)
			}
			if outPath == "" {
				outPath = args[0] + ".html"
			}
		default:
			return fmt.Errorf("unknown format %q (want md or html)", format)
		}

		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Printf("Exported to %s\n", outPath)
		return nil
	},
}

func init() {
	tripsExportCmd.Flags().String("format", "md", "export format: md or html")
	tripsExportCmd.Flags().String("out", "", "output file path")
	tripsCmd.AddCommand(tripsListCmd, tripsShowCmd, tripsExportCmd)
	rootCmd.AddCommand(tripsCmd)
}

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening data dir: %w", err)
	}
	return st, nil
}
