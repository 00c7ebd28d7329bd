// Package tokenizer counts tokens client-side with tiktoken encodings,
// used to estimate usage when a provider omits it from the wire.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/recall/pkg/types"
)

const defaultEncoding = "o200k_base"

// perMessageOverhead approximates the chat framing tokens each message
// adds on top of its content.
const perMessageOverhead = 4

// Tokenizer wraps a tiktoken encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New loads the default encoding. The first call may download BPE ranks,
// so it can fail without network access; callers should keep working with
// EstimateTokens when it does.
func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", defaultEncoding, err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// CountTokens returns the token count of text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessagesTokens sums the token counts of the message contents plus
// the per-message framing overhead.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += t.CountTokens(msg.Content) + perMessageOverhead
	}
	return total
}

// EstimateTokens approximates a token count without an encoding, using the
// four-bytes-per-token heuristic.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// EstimateMessagesTokens applies EstimateTokens across messages with the
// same framing overhead as CountMessagesTokens.
func EstimateMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += EstimateTokens(msg.Content) + perMessageOverhead
	}
	return total
}
