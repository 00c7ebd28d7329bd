// Package llm provides abstractions for LLM backend integration.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/entrhq/recall/pkg/llm"
//	    "github.com/entrhq/recall/pkg/llm/openai"
//	    "github.com/entrhq/recall/pkg/types"
//	)
//
//	func main() {
//	    client, err := openai.NewProvider(
//	        os.Getenv("OPENAI_API_KEY"),
//	        openai.WithModel("gpt-4o"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    prompt := &llm.Prompt{
//	        Instructions: "Answer briefly.",
//	        Messages:     []*types.Message{types.NewMessage(types.RoleUser, "Hello!")},
//	    }
//
//	    events, err := client.Stream(context.Background(), prompt)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for event := range events {
//	        if event.IsError() {
//	            log.Fatal(event.Err)
//	        }
//	        if event.Type == llm.EventTypeOutputTextDelta {
//	            fmt.Print(event.Delta)
//	        }
//	    }
//	}
package llm

import (
	"context"
	"encoding/json"

	"github.com/entrhq/recall/pkg/types"
)

// EventType identifies the kind of a ResponseEvent.
type EventType string

const (
	// EventTypeOutputItemDone signals a completed output item.
	EventTypeOutputItemDone EventType = "output_item_done"
	// EventTypeOutputTextDelta carries an incremental text fragment.
	EventTypeOutputTextDelta EventType = "output_text_delta"
	// EventTypeRateLimits carries the provider's rate-limit state.
	EventTypeRateLimits EventType = "rate_limits"
	// EventTypeCompleted terminates a successful response.
	EventTypeCompleted EventType = "completed"
)

// ResponseEvent is one item of a streamed model response. Exactly one of
// the payload fields is populated, selected by Type, except for error
// events which carry only Err.
type ResponseEvent struct {
	// Type indicates which payload field is set.
	Type EventType

	// Item is the completed output item (EventTypeOutputItemDone).
	Item *types.Message

	// Delta is the text fragment (EventTypeOutputTextDelta).
	Delta string

	// RateLimits is the reported snapshot (EventTypeRateLimits).
	RateLimits *types.RateLimitSnapshot

	// Usage totals the call's token consumption (EventTypeCompleted).
	// Nil when the provider never reported usage.
	Usage *types.TokenUsage

	// Err is set when the stream failed mid-flight. No further events
	// follow an error.
	Err error
}

// IsError returns true if this event reports a stream failure.
func (e *ResponseEvent) IsError() bool {
	return e.Err != nil
}

// NewItemDoneEvent creates an output-item-done event.
func NewItemDoneEvent(item *types.Message) *ResponseEvent {
	return &ResponseEvent{Type: EventTypeOutputItemDone, Item: item}
}

// NewTextDeltaEvent creates a text-delta event.
func NewTextDeltaEvent(delta string) *ResponseEvent {
	return &ResponseEvent{Type: EventTypeOutputTextDelta, Delta: delta}
}

// NewRateLimitsEvent creates a rate-limits event.
func NewRateLimitsEvent(snapshot *types.RateLimitSnapshot) *ResponseEvent {
	return &ResponseEvent{Type: EventTypeRateLimits, RateLimits: snapshot}
}

// NewCompletedEvent creates a completed event. usage may be nil.
func NewCompletedEvent(usage *types.TokenUsage) *ResponseEvent {
	return &ResponseEvent{Type: EventTypeCompleted, Usage: usage}
}

// NewErrorEvent creates an in-band error event.
func NewErrorEvent(err error) *ResponseEvent {
	return &ResponseEvent{Err: err}
}

// ToolDefinition describes a tool the model may call.
type ToolDefinition struct {
	// Name is the tool's identifier.
	Name string

	// Description tells the model what the tool does.
	Description string

	// Parameters is the JSON schema of the tool's arguments.
	Parameters json.RawMessage
}

// Prompt describes a single model call.
type Prompt struct {
	// Instructions overrides the backend's base system prompt.
	Instructions string

	// Messages is the conversation to complete.
	Messages []*types.Message

	// Tools lists the tools the model may call. Nil disables tool use.
	Tools []ToolDefinition

	// ParallelToolCalls permits concurrent tool calls when tools are set.
	ParallelToolCalls bool

	// OutputSchema constrains the response to a JSON schema when set.
	OutputSchema json.RawMessage
}

// Client is the capability a model backend exposes to this subsystem.
//
// Stream returns an error only if streaming cannot be initiated (invalid
// configuration, network unavailable, non-2xx start). Failures after the
// stream starts arrive in-band as events with Err set, after which the
// channel closes. A successful response ends with EventTypeCompleted;
// a channel that closes without one means the response did not finish.
// Callers should continue reading until the channel is closed.
type Client interface {
	Stream(ctx context.Context, prompt *Prompt) (<-chan *ResponseEvent, error)
}
