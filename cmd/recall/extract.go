package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/recall/pkg/config"
	"github.com/entrhq/recall/pkg/llm"
	"github.com/entrhq/recall/pkg/llm/anthropic"
	"github.com/entrhq/recall/pkg/llm/openai"
	"github.com/entrhq/recall/pkg/memory"
	"github.com/entrhq/recall/pkg/session"
	"github.com/entrhq/recall/pkg/types"
)

var extractTimeout time.Duration

// extractCmd runs the extraction pipeline once
var extractCmd = &cobra.Command{
	Use:   "extract [text]...",
	Short: "Extract durable notes from turn text",
	Long: `Sends turn text, from the arguments or from stdin when none are
given, to the configured model backend and appends any new notes it
produces to the resolved store. Extraction failures are logged to the
session log and leave the store untouched.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "Extraction timeout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var inputs []*types.Input
	if len(args) > 0 {
		for _, arg := range args {
			inputs = append(inputs, types.NewTextInput(arg))
		}
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		inputs = append(inputs, types.NewTextInput(string(data)))
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	target := memory.WritePath(cfg)
	before := countStoreNotes(target)

	sess := session.New(session.SourceInteractive)
	recorder := memory.NewRecorder(client, sess, cfg)
	recorder.MaybeRecord(ctx, inputs)

	written := countStoreNotes(target) - before
	usage := sess.TokenUsage()
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d new notes in %s\n", written, target)
	fmt.Fprintf(cmd.OutOrStdout(), "Tokens: %d in / %d out\n", usage.InputTokens, usage.OutputTokens)
	return nil
}

// buildClient constructs the configured model backend.
func buildClient(cfg *config.Config) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewProvider(cfg.LLM.APIKey,
			anthropic.WithModel(cfg.LLM.Model),
			anthropic.WithBaseURL(cfg.LLM.BaseURL),
		)
	default:
		return openai.NewProvider(cfg.LLM.APIKey,
			openai.WithModel(cfg.LLM.Model),
			openai.WithBaseURL(cfg.LLM.BaseURL),
		)
	}
}

// countStoreNotes reads the store at path without failing the command.
func countStoreNotes(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	return len(memory.ParseNotes(string(data)))
}
