package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atlastravel/atlas/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the learned traveler profile",
	Long:  `Prints the traveler profile built up from your saved itineraries: past destinations, preferred activities, pace, and average budget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("opening data dir: %w", err)
		}
		prof, err := st.LoadProfile()
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}

		if prof.TripCount == 0 {
			fmt.Println("No trips saved yet. Plan one with `atlas plan` and save it with --save.")
			return nil
		}

		fmt.Printf("Trips saved:          %d\n", prof.TripCount)
		fmt.Printf("Past destinations:    %s\n", joinOrNone(prof.PastDestinations))
		fmt.Printf("Destination types:    %s\n", joinOrNone(prof.FavouriteDestinationTypes))
		fmt.Printf("Activity categories:  %s\n", joinOrNone(prof.FavouriteCategories))
		if prof.PreferredPace != "" {
			fmt.Printf("Preferred pace:       %s\n", prof.PreferredPace)
		}
		if prof.TypicalBudgetUSD != nil {
			fmt.Printf("Typical trip budget:  $%.0f\n", *prof.TypicalBudgetUSD)
		}
		if !prof.UpdatedAt.IsZero() {
			fmt.Printf("Last updated:         %s\n", prof.UpdatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
