// =============================================================================
// Purchase Analyzer - Config Command
// =============================================================================
//
// COMMAND USAGE:
//   purchase-analyzer config init [path] [--force]
//
// Writes the default configuration as YAML so it can be edited by hand.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchase-analyzer/internal/config"
)

// forceOverwrite replaces an existing configuration file.
var forceOverwrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) == 1 {
			path = args[0]
		}

		if err := config.WriteDefault(path, forceOverwrite); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceOverwrite, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
