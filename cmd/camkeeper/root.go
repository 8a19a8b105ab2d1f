package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config.toml"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "camkeeper",
	Short: "Camkeeper - Camera recording housekeeper",
	Long: `Camkeeper keeps a camera upload tree in shape: it reclaims disk
space by deleting the oldest archived recordings, moves settled uploads into
a date-partitioned archive, and prunes the empty directories left behind.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
