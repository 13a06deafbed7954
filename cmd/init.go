package cmd

import (
	"github.com/spf13/cobra"

	"github.com/atlastravel/atlas/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize atlas configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure atlas and generates a .atlas.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
