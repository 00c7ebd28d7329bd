// Package openai provides an OpenAI-compatible streaming client.
//
// The implementation uses raw HTTP streaming and handles SSE lines
// directly, which gives better compatibility with OpenAI-compatible
// gateways that include SSE comments or vary the terminator format.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/entrhq/recall/pkg/llm"
	"github.com/entrhq/recall/pkg/llm/tokenizer"
	"github.com/entrhq/recall/pkg/types"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model is configured
	DefaultModel = "gpt-4o"
)

// Provider implements llm.Client for OpenAI-compatible chat-completions
// APIs.
type Provider struct {
	httpClient *http.Client
	tokenizer  *tokenizer.Tokenizer
	apiKey     string
	baseURL    string
	model      string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs.
// This enables using Azure OpenAI, local models, or other compatible
// services.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// NewProvider creates an OpenAI client with the given API key.
//
// If apiKey is empty, it is read from the OPENAI_API_KEY environment
// variable. If no base URL is set via WithBaseURL, OPENAI_BASE_URL is
// checked before falling back to the default endpoint.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	p := &Provider{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
	}

	for _, opt := range opts {
		opt(p)
	}

	// If the base URL wasn't set by options, check the environment.
	if p.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			p.baseURL = envBaseURL
		}
	}

	// Usage estimation degrades to a byte heuristic when the encoding
	// cannot be loaded (e.g. offline first run).
	tok, _ := tokenizer.New()
	p.tokenizer = tok

	return p, nil
}

// Stream sends the prompt to the chat-completions endpoint and streams
// back response events.
//
// Returns an error only if streaming cannot be initiated. Stream-time
// failures are sent as in-band error events, and the channel is closed
// when the response completes or fails.
func (p *Provider) Stream(ctx context.Context, prompt *llm.Prompt) (<-chan *llm.ResponseEvent, error) {
	resp, err := p.sendStreamRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	events := make(chan *llm.ResponseEvent, 10)
	go p.processStreamResponse(ctx, resp, prompt, events)
	return events, nil
}

// sendStreamRequest creates and sends the HTTP request for streaming
func (p *Provider) sendStreamRequest(ctx context.Context, prompt *llm.Prompt) (*http.Response, error) {
	reqBody := map[string]interface{}{
		"model":    p.model,
		"messages": convertMessages(prompt),
		"stream":   true,
		"stream_options": map[string]interface{}{
			"include_usage": true,
		},
	}

	if len(prompt.Tools) > 0 {
		tools := make([]map[string]interface{}, 0, len(prompt.Tools))
		for _, tool := range prompt.Tools {
			tools = append(tools, map[string]interface{}{
				"type": "function",
				"function": map[string]interface{}{
					"name":        tool.Name,
					"description": tool.Description,
					"parameters":  json.RawMessage(tool.Parameters),
				},
			})
		}
		reqBody["tools"] = tools
		reqBody["parallel_tool_calls"] = prompt.ParallelToolCalls
	}

	if len(prompt.OutputSchema) > 0 {
		reqBody["response_format"] = map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   "response",
				"schema": json.RawMessage(prompt.OutputSchema),
				"strict": true,
			},
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// processStreamResponse reads the SSE stream and sends events to the
// channel
func (p *Provider) processStreamResponse(ctx context.Context, resp *http.Response, prompt *llm.Prompt, events chan<- *llm.ResponseEvent) {
	defer close(events)
	defer resp.Body.Close()

	// Rate-limit headers arrive with the response, ahead of body frames.
	if snapshot := parseRateLimitHeaders(resp.Header); snapshot != nil {
		if !p.send(ctx, llm.NewRateLimitsEvent(snapshot), events) {
			return
		}
	}

	var output strings.Builder
	var usage *types.TokenUsage

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()

		if !isValidSSELine(line) {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")

		if isDoneMarker(data) {
			p.finish(ctx, prompt, output.String(), usage, events)
			return
		}

		var frame streamFrame
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			continue // skip malformed frames silently
		}

		if frame.Usage != nil {
			usage = frame.Usage.toTokenUsage()
		}

		if len(frame.Choices) == 0 {
			continue
		}

		if content := frame.Choices[0].Delta.Content; content != "" {
			output.WriteString(content)
			if !p.send(ctx, llm.NewTextDeltaEvent(content), events) {
				return
			}
		}
	}

	if err := scanner.Err(); err != nil {
		p.send(ctx, llm.NewErrorEvent(fmt.Errorf("stream read error: %w", err)), events)
		return
	}

	// The body ended without a terminator. Close without a completed
	// event so callers treat the response as unfinished.
}

// finish emits the terminal events for a successfully terminated stream:
// the accumulated output as one completed item, then completion with
// usage (reported or estimated).
func (p *Provider) finish(ctx context.Context, prompt *llm.Prompt, output string, usage *types.TokenUsage, events chan<- *llm.ResponseEvent) {
	if output != "" {
		item := types.NewMessage(types.RoleAssistant, output)
		if !p.send(ctx, llm.NewItemDoneEvent(item), events) {
			return
		}
	}

	if usage == nil {
		usage = p.estimateUsage(prompt, output)
	}
	p.send(ctx, llm.NewCompletedEvent(usage), events)
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

// isValidSSELine checks if a line is a valid SSE data line
func isValidSSELine(line string) bool {
	return line != "" && !strings.HasPrefix(line, ":") && strings.HasPrefix(line, "data: ")
}

// isDoneMarker recognizes the stream terminator. Compatible gateways emit
// either the bracketed form or a bare DONE.
func isDoneMarker(data string) bool {
	return data == "[DONE]" || data == "DONE"
}

// streamFrame is the subset of a chat-completions SSE frame this client
// reads.
type streamFrame struct {
	Choices []struct {
		Delta struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *usagePayload `json:"usage"`
}

type usagePayload struct {
	PromptTokens        int64 `json:"prompt_tokens"`
	CompletionTokens    int64 `json:"completion_tokens"`
	TotalTokens         int64 `json:"total_tokens"`
	PromptTokensDetails struct {
		CachedTokens int64 `json:"cached_tokens"`
	} `json:"prompt_tokens_details"`
	CompletionTokensDetails struct {
		ReasoningTokens int64 `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

func (u *usagePayload) toTokenUsage() *types.TokenUsage {
	total := u.TotalTokens
	if total == 0 {
		total = u.PromptTokens + u.CompletionTokens
	}
	return &types.TokenUsage{
		InputTokens:           u.PromptTokens,
		CachedInputTokens:     u.PromptTokensDetails.CachedTokens,
		OutputTokens:          u.CompletionTokens,
		ReasoningOutputTokens: u.CompletionTokensDetails.ReasoningTokens,
		TotalTokens:           total,
	}
}

// estimateUsage approximates token usage client-side for backends that
// never report usage on the stream.
func (p *Provider) estimateUsage(prompt *llm.Prompt, output string) *types.TokenUsage {
	var input, out int64
	if p.tokenizer != nil {
		input = int64(p.tokenizer.CountTokens(prompt.Instructions) + p.tokenizer.CountMessagesTokens(prompt.Messages))
		out = int64(p.tokenizer.CountTokens(output))
	} else {
		input = int64(tokenizer.EstimateTokens(prompt.Instructions) + tokenizer.EstimateMessagesTokens(prompt.Messages))
		out = int64(tokenizer.EstimateTokens(output))
	}

	return &types.TokenUsage{
		InputTokens:  input,
		OutputTokens: out,
		TotalTokens:  input + out,
	}
}

// parseRateLimitHeaders derives a snapshot from the x-ratelimit response
// headers. Returns nil when the provider sent none of them.
func parseRateLimitHeaders(h http.Header) *types.RateLimitSnapshot {
	primary := parseRateLimitWindow(h,
		"x-ratelimit-limit-requests",
		"x-ratelimit-remaining-requests",
		"x-ratelimit-reset-requests",
	)
	secondary := parseRateLimitWindow(h,
		"x-ratelimit-limit-tokens",
		"x-ratelimit-remaining-tokens",
		"x-ratelimit-reset-tokens",
	)

	if primary == nil && secondary == nil {
		return nil
	}
	return &types.RateLimitSnapshot{Primary: primary, Secondary: secondary}
}

// parseRateLimitWindow builds one window from a limit/remaining/reset
// header triple. The reset value is a Go-style duration ("6m0s"), with a
// bare-seconds fallback for gateways that send integers.
func parseRateLimitWindow(h http.Header, limitKey, remainingKey, resetKey string) *types.RateLimitWindow {
	limit, err := strconv.ParseFloat(h.Get(limitKey), 64)
	if err != nil || limit <= 0 {
		return nil
	}

	remaining, err := strconv.ParseFloat(h.Get(remainingKey), 64)
	if err != nil || remaining < 0 {
		return nil
	}

	window := &types.RateLimitWindow{
		UsedPercent: (limit - remaining) / limit * 100,
	}

	if reset := h.Get(resetKey); reset != "" {
		if d, err := time.ParseDuration(reset); err == nil {
			window.ResetsInSeconds = int64(d.Seconds())
		} else if secs, err := strconv.ParseInt(reset, 10, 64); err == nil {
			window.ResetsInSeconds = secs
		}
	}

	return window
}

// convertMessages converts a prompt to OpenAI's
// ChatCompletionMessageParamUnion format, with the instruction override
// leading as a system message.
func convertMessages(prompt *llm.Prompt) []openai.ChatCompletionMessageParamUnion {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.Messages)+1)

	if prompt.Instructions != "" {
		openaiMessages = append(openaiMessages, openai.SystemMessage(prompt.Instructions))
	}

	for _, msg := range prompt.Messages {
		switch msg.Role {
		case types.RoleSystem:
			openaiMessages = append(openaiMessages, openai.SystemMessage(msg.Content))
		case types.RoleUser:
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		case types.RoleAssistant:
			openaiMessages = append(openaiMessages, openai.AssistantMessage(msg.Content))
		default:
			// Unknown roles degrade to user messages.
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		}
	}

	return openaiMessages
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// GetBaseURL returns the base URL being used.
func (p *Provider) GetBaseURL() string {
	return p.baseURL
}
