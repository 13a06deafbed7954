package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/export"
	"github.com/atlastravel/atlas/internal/progress"
)

var planCmd = &cobra.Command{
	Use:   "plan [request]",
	Short: "Generate a trip itinerary from a natural-language request",
	Long: `Generates a complete day-by-day itinerary from a free-form request like
"5 days in Kyoto in April, mid-range budget, love food and temples".

With --partial, days you have already planned are preserved exactly and
only the remaining dates are generated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().String("partial", "", "path to a partial itinerary JSON file whose days are preserved")
	planCmd.Flags().String("out", "", "write the itinerary markdown to a file instead of stdout")
	planCmd.Flags().Bool("save", false, "save the itinerary and update your traveler profile")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	svc, _, _, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}

	partialPath, _ := cmd.Flags().GetString("partial")
	var partial *domain.Itinerary
	if partialPath != "" {
		loaded, err := loadPartialItinerary(partialPath)
		if err != nil {
			return err
		}
		partial = loaded
	}

	prof, err := svc.Profile()
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	input := args[0]
	for _, arg := range args[1:] {
		input += " " + arg
	}

	reporter := progress.NewReporter()
	reporter.Start(2)
	reporter.Update(1, "generating itinerary")

	it, err := svc.GenerateItinerary(ctx, input, nil, partial, prof)
	if err != nil {
		reporter.Finish()
		return planError(err)
	}

	reporter.Update(2, "rendering")
	reporter.Finish()

	save, _ := cmd.Flags().GetBool("save")
	if save {
		prof, err := svc.Save(ctx, it)
		if err != nil {
			return fmt.Errorf("saving itinerary: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved itinerary (trip #%d)\n", prof.TripCount)
	}

	md := export.Markdown(it)
	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Itinerary written to %s\n", outPath)
		return nil
	}
	fmt.Println(md)
	return nil
}

func loadPartialItinerary(path string) (*domain.Itinerary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading partial itinerary: %w", err)
	}
	var it domain.Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("parsing partial itinerary %s: %w", path, err)
	}
	return &it, nil
}

// planError rewrites the library errors into actionable CLI messages.
func planError(err error) error {
	var structErr *domain.StructuredOutputError
	if errors.As(err, &structErr) {
		fmt.Fprintln(os.Stderr, "The model could not produce a valid itinerary:")
		for _, d := range structErr.Diagnostics {
			fmt.Fprintf(os.Stderr, "  - %s\n", d)
		}
		return fmt.Errorf("itinerary generation failed after %d attempts", structErr.Attempts)
	}
	return err
}
