package domain

import "time"

// RatePolicy parameterizes a store-backed token bucket. Refill is
// floor(elapsed * RefillRate / Window) tokens, capped at MaxTokens.
type RatePolicy struct {
	MaxTokens  int
	RefillRate int
	Window     time.Duration
}

// RateDecision is the outcome of one bucket take.
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // informational, only meaningful when denied
}
