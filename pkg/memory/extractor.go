package memory

import (
	"context"
	"strings"

	"github.com/entrhq/recall/pkg/config"
	"github.com/entrhq/recall/pkg/llm"
	"github.com/entrhq/recall/pkg/logging"
	"github.com/entrhq/recall/pkg/session"
	"github.com/entrhq/recall/pkg/truncate"
	"github.com/entrhq/recall/pkg/types"
)

var memoryDebugLog *logging.Logger

func init() {
	var err error
	memoryDebugLog, err = logging.NewLogger("memory")
	if err != nil {
		// Logger fell back to stderr due to initialization failure
		memoryDebugLog.Warnf("Failed to initialize memory logger, using stderr fallback: %v", err)
	}
}

// streamState tracks the extraction stream's lifecycle. Consumption starts
// in stateStreaming and ends in exactly one of the terminal states; only
// stateCompleted permits a write.
type streamState int

const (
	stateStreaming streamState = iota
	stateCompleted
	stateAborted
)

// Recorder runs memory extraction at the end of conversation turns: it
// asks the model backend to summarize the turn's text inputs into durable
// notes and appends the new ones to the resolved store.
type Recorder struct {
	client llm.Client
	sess   *session.Session
	cfg    *config.Config
}

// NewRecorder creates a recorder bound to one session and its backend.
func NewRecorder(client llm.Client, sess *session.Session, cfg *config.Config) *Recorder {
	return &Recorder{
		client: client,
		sess:   sess,
		cfg:    cfg,
	}
}

// MaybeRecord extracts durable notes from the turn's text inputs and
// persists them. It never reports failure: every error along the way is
// logged and swallowed so the hosting turn is unaffected. Automated
// sessions, disabled capture, and turns without usable text all return
// without a model call.
func (r *Recorder) MaybeRecord(ctx context.Context, inputs []*types.Input) {
	if !r.shouldRecord() {
		return
	}

	texts := collectInputTexts(inputs)
	if len(texts) == 0 {
		return
	}

	combined := strings.Join(texts, "\n\n")
	if len(combined) > promptMaxBytes {
		combined = truncate.Bytes(combined, promptMaxBytes)
	}

	// One user message, no tools, instructions overridden with the
	// extraction template.
	prompt := &llm.Prompt{
		Instructions: extractionPrompt,
		Messages:     []*types.Message{types.NewMessage(types.RoleUser, combined)},
	}

	events, err := r.client.Stream(ctx, prompt)
	if err != nil {
		memoryDebugLog.Warnf("Failed to run memories extraction: %v", err)
		return
	}

	raw, ok := r.consumeStream(events)
	if !ok {
		return
	}

	candidates := ParseCandidates(raw)
	if len(candidates) == 0 {
		return
	}
	if len(candidates) > maxCandidatesPerTurn {
		candidates = candidates[:maxCandidatesPerTurn]
	}

	path := WritePath(r.cfg)
	if _, err := Append(path, candidates); err != nil {
		memoryDebugLog.Warnf("Failed to write memories to %s: %v", path, err)
	}
}

// shouldRecord gates extraction on configuration and session origin.
func (r *Recorder) shouldRecord() bool {
	if !r.cfg.Memory.CaptureEnabled {
		return false
	}
	return !r.sess.Source().IsAutomated()
}

// consumeStream drains response events in arrival order until the stream
// reaches a terminal state. It returns the response text: structured
// output items joined by newlines when any arrived, the accumulated deltas
// otherwise. The boolean is false when the stream aborted, in which case
// nothing may be written.
func (r *Recorder) consumeStream(events <-chan *llm.ResponseEvent) (string, bool) {
	var itemTexts []string
	var streamed strings.Builder

	state := stateStreaming
	for state == stateStreaming {
		event, open := <-events
		if !open {
			// The channel closing before a completed event means the
			// response never finished.
			memoryDebugLog.Warnf("Memories extraction stream closed before completion")
			state = stateAborted
			break
		}
		if event.IsError() {
			memoryDebugLog.Warnf("Memories extraction failed: %v", event.Err)
			state = stateAborted
			break
		}

		switch event.Type {
		case llm.EventTypeOutputItemDone:
			if event.Item != nil && event.Item.Content != "" {
				itemTexts = append(itemTexts, event.Item.Content)
			}
		case llm.EventTypeOutputTextDelta:
			streamed.WriteString(event.Delta)
		case llm.EventTypeRateLimits:
			r.sess.UpdateRateLimits(event.RateLimits)
		case llm.EventTypeCompleted:
			r.sess.UpdateTokenUsage(event.Usage)
			state = stateCompleted
		default:
			// Unrecognized kinds are ignored so the transport can grow
			// new event types without breaking extraction.
		}
	}

	if state != stateCompleted {
		return "", false
	}

	if len(itemTexts) > 0 {
		return strings.Join(itemTexts, "\n"), true
	}
	return streamed.String(), true
}

// collectInputTexts keeps the turn's text items that carry non-blank
// content, preserving order. Images and other input kinds are skipped.
func collectInputTexts(inputs []*types.Input) []string {
	var texts []string
	for _, input := range inputs {
		if input == nil || !input.IsText() {
			continue
		}
		if strings.TrimSpace(input.Text) == "" {
			continue
		}
		texts = append(texts, input.Text)
	}
	return texts
}
