package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/recall/pkg/memory"
)

// addCmd appends notes directly, bypassing extraction
var addCmd = &cobra.Command{
	Use:   "add <note>...",
	Short: "Append notes to the resolved store",
	Long: `Appends each note to the write target: the enclosing project's
store when the working directory sits inside an allowed repository, the
global store otherwise. Notes that duplicate an existing one are dropped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	path := memory.WritePath(cfg)
	written, err := memory.Append(path, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d notes to %s\n", written, len(args), path)
	return nil
}
