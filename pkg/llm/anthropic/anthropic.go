// Package anthropic provides a streaming client for Anthropic's Messages
// API through the official SDK.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/entrhq/recall/pkg/llm"
	"github.com/entrhq/recall/pkg/types"
)

// DefaultModel is used when no model is configured.
const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// defaultMaxTokens bounds the response length. The Messages API requires an
// explicit cap on every call.
const defaultMaxTokens = 1024

// Provider implements llm.Client for Anthropic's Messages API.
type Provider struct {
	client     anthropic.Client
	httpClient *http.Client
	baseURL    string
	model      anthropic.Model
	maxTokens  int64
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = anthropic.Model(model)
		}
	}
}

// WithBaseURL sets a custom base URL, e.g. for a proxy or a mock server.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// WithMaxTokens overrides the response token cap.
func WithMaxTokens(maxTokens int64) ProviderOption {
	return func(p *Provider) {
		if maxTokens > 0 {
			p.maxTokens = maxTokens
		}
	}
}

// WithHTTPClient sets the HTTP client the SDK issues requests with.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// NewProvider creates an Anthropic client with the given API key.
//
// If apiKey is empty, it is read from the ANTHROPIC_API_KEY environment
// variable. The SDK would read that variable on its own, but checking here
// turns a missing key into a constructor error instead of a failed first
// request.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (provide via parameter or ANTHROPIC_API_KEY environment variable)")
	}

	p := &Provider{
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if p.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(p.httpClient))
	}
	p.client = anthropic.NewClient(reqOpts...)

	return p, nil
}

// Stream sends the prompt to the Messages API and streams back response
// events.
//
// Returns an error only if streaming cannot be initiated. Stream-time
// failures are sent as in-band error events, and the channel is closed
// when the response completes or fails.
func (p *Provider) Stream(ctx context.Context, prompt *llm.Prompt) (<-chan *llm.ResponseEvent, error) {
	stream := p.client.Messages.NewStreaming(ctx, p.buildParams(prompt))
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start message stream: %w", err)
	}

	events := make(chan *llm.ResponseEvent, 10)
	go p.processStream(ctx, stream, events)
	return events, nil
}

// buildParams converts the prompt into Messages API parameters. Anthropic
// carries system content on a dedicated field, so system-role messages are
// folded into it after the instruction override.
func (p *Provider) buildParams(prompt *llm.Prompt) anthropic.MessageNewParams {
	system := prompt.Instructions
	messages := make([]anthropic.MessageParam, 0, len(prompt.Messages))

	for _, msg := range prompt.Messages {
		switch msg.Role {
		case types.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case types.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

// processStream accumulates the streamed message while forwarding text
// deltas, then emits the terminal events: the accumulated message as one
// completed item, followed by completion with the SDK-reported usage.
func (p *Provider) processStream(ctx context.Context, stream *ssestream.Stream[anthropic.MessageStreamEventUnion], events chan<- *llm.ResponseEvent) {
	defer close(events)
	defer stream.Close()

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			p.send(ctx, llm.NewErrorEvent(fmt.Errorf("failed to accumulate message: %w", err)), events)
			return
		}

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := eventVariant.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				if !p.send(ctx, llm.NewTextDeltaEvent(delta.Text), events) {
					return
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		p.send(ctx, llm.NewErrorEvent(fmt.Errorf("stream read error: %w", err)), events)
		return
	}

	if text := messageText(&message); text != "" {
		item := types.NewMessage(types.RoleAssistant, text)
		if !p.send(ctx, llm.NewItemDoneEvent(item), events) {
			return
		}
	}
	p.send(ctx, llm.NewCompletedEvent(convertUsage(message.Usage)), events)
}

// send delivers one event, honoring context cancellation.
func (p *Provider) send(ctx context.Context, event *llm.ResponseEvent, events chan<- *llm.ResponseEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		select {
		case events <- llm.NewErrorEvent(ctx.Err()):
		default:
		}
		return false
	}
}

// messageText joins the text blocks of an accumulated message.
func messageText(message *anthropic.Message) string {
	var parts []string
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok && text.Text != "" {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func convertUsage(usage anthropic.Usage) *types.TokenUsage {
	return &types.TokenUsage{
		InputTokens:       usage.InputTokens,
		CachedInputTokens: usage.CacheReadInputTokens,
		OutputTokens:      usage.OutputTokens,
		TotalTokens:       usage.InputTokens + usage.OutputTokens,
	}
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return string(p.model)
}
