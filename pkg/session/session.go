// Package session classifies how the hosting conversation was started and
// tracks the model-usage bookkeeping its turns report back.
package session

import (
	"sync"

	"github.com/entrhq/recall/pkg/types"
)

// Source classifies the kind of process that initiated a session.
type Source string

const (
	// SourceInteractive is a session driven by a person, e.g. a terminal
	// or chat surface.
	SourceInteractive Source = "interactive"

	// SourceExec is a non-interactive batch invocation, e.g. CI or a
	// scripted run.
	SourceExec Source = "exec"

	// SourceSubAgent is a session spawned by another agent.
	SourceSubAgent Source = "subagent"
)

// IsAutomated reports whether the source is one of the non-interactive
// kinds. Automated sessions never record memories.
func (s Source) IsAutomated() bool {
	return s == SourceExec || s == SourceSubAgent
}

// Session carries per-conversation state shared across turns: the origin
// classification, cumulative token usage, and the most recent rate-limit
// snapshot. Safe for concurrent use.
type Session struct {
	source Source

	mu         sync.Mutex
	usage      types.TokenUsage
	rateLimits *types.RateLimitSnapshot
}

// New creates a session with the given source classification.
func New(source Source) *Session {
	return &Session{source: source}
}

// Source returns the session's origin classification.
func (s *Session) Source() Source {
	return s.source
}

// UpdateTokenUsage accumulates usage reported by a completed model call.
// A nil report is ignored.
func (s *Session) UpdateTokenUsage(usage *types.TokenUsage) {
	if usage == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage.Add(*usage)
}

// UpdateRateLimits records the most recent rate-limit snapshot. A nil
// snapshot is ignored so a provider that omits one never clears the last
// known state.
func (s *Session) UpdateRateLimits(snapshot *types.RateLimitSnapshot) {
	if snapshot == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimits = snapshot
}

// TokenUsage returns the cumulative usage across the session's calls.
func (s *Session) TokenUsage() types.TokenUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// RateLimits returns the latest reported snapshot, nil when no call has
// reported one yet.
func (s *Session) RateLimits() *types.RateLimitSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateLimits
}
