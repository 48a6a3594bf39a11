package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "olkan",
	Short: "olKAN - AI-native data catalog",
	Long: `olKAN catalog service

Dataset catalog with a built-in metadata quality assessment engine:
multi-metric scoring, issue detection, recommendations, and corpus
statistics.

Examples:
  olkan api
  olkan assess my-dataset
  olkan compare
  olkan scheduler`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
