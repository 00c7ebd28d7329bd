// Package main provides the recall CLI for inspecting, editing, and
// extracting the durable memory stores recall maintains.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/recall/pkg/config"
)

var (
	// Global flags
	configPath string
	homeDir    string
	workingDir string

	// cfg is resolved by the root PersistentPreRunE before any command runs.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "recall - durable memory for model-assisted sessions",
	Long: `recall maintains small append-only memory stores: a global one under
the recall home and an optional per-repository one under .recall/.

Notes are plain markdown bullets. The extract command asks the configured
model backend to distill new notes from turn text; show merges every
resolved store into the block a prompt builder embeds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadDefault()
		}
		if err != nil {
			return err
		}

		// Flag overrides apply on top of the loaded file.
		if homeDir != "" {
			cfg.Home = homeDir
		}
		if workingDir != "" {
			cfg.WorkingDir = workingDir
		}
		return cfg.Validate()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <home>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Recall home directory (default: $RECALL_HOME or ~/.recall)")
	rootCmd.PersistentFlags().StringVar(&workingDir, "cwd", "", "Working directory for project-store resolution (default: current directory)")

	// Add commands to root
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(pathsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
