package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/entrhq/recall/pkg/memory"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

var copyToClipboard bool

// showCmd prints the merged memory block
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged memory block",
	Long: `Reads every resolved store, global first and then the enclosing
project's, and prints the merged section with duplicates removed.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the block to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	block, ok := memory.ReadForInstructions(cfg)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No memories recorded yet.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), block)

	if copyToClipboard {
		if err := clipboardWriteAll(block); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
	}
	return nil
}
