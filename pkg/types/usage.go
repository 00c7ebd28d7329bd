package types

// TokenUsage tracks token consumption for one or more model calls.
type TokenUsage struct {
	InputTokens           int64 `json:"input_tokens"`
	CachedInputTokens     int64 `json:"cached_input_tokens"`
	OutputTokens          int64 `json:"output_tokens"`
	ReasoningOutputTokens int64 `json:"reasoning_output_tokens"`
	TotalTokens           int64 `json:"total_tokens"`
}

// Add accumulates another usage sample into the receiver.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.CachedInputTokens += other.CachedInputTokens
	u.OutputTokens += other.OutputTokens
	u.ReasoningOutputTokens += other.ReasoningOutputTokens
	u.TotalTokens += other.TotalTokens
}

// RateLimitWindow describes one provider-side rate-limit bucket.
type RateLimitWindow struct {
	// UsedPercent is how much of the window is consumed, 0-100.
	UsedPercent float64 `json:"used_percent"`

	// WindowMinutes is the bucket duration, when the provider reports one.
	WindowMinutes int64 `json:"window_minutes,omitempty"`

	// ResetsInSeconds is the time until the bucket refills, when reported.
	ResetsInSeconds int64 `json:"resets_in_seconds,omitempty"`
}

// RateLimitSnapshot is the most recent rate-limit state reported by a
// provider. Either window may be absent when the provider omits it.
type RateLimitSnapshot struct {
	// Primary is the request-count bucket.
	Primary *RateLimitWindow `json:"primary,omitempty"`

	// Secondary is the token-count bucket.
	Secondary *RateLimitWindow `json:"secondary,omitempty"`
}
