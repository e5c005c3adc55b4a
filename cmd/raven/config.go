package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raven-flight/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the built-in raven.yaml. Save it to one of the search paths and
edit the keys you want to change:

  --config <path>
  ~/.raven/configs/raven.yaml
  ./configs/raven.yaml

Examples:
  raven config > ~/.raven/configs/raven.yaml`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	},
}
