package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/recall/pkg/memory"
)

// pathsCmd prints the resolved store locations
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved store paths",
	Long: `Prints every store in the read set, one per line, followed by the
write target new notes would append to.`,
	RunE: runPaths,
}

func runPaths(cmd *cobra.Command, args []string) error {
	for _, path := range memory.Paths(cfg) {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "write target: %s\n", memory.WritePath(cfg))
	return nil
}
