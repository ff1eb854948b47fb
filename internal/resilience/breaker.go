// Package resilience wraps rate-limited outbound collaborators (the LLM
// Completer, market-data client) with a circuit breaker so repeated
// failures degrade gracefully instead of hammering a struggling dependency.
package resilience

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes a Breaker's trip and recovery behavior.
type BreakerConfig struct {
	Name                string
	ConsecutiveFailures uint32        // trips after this many consecutive failures
	FailureRatio        float64       // trips if failure ratio exceeds this, once MinRequests is met
	MinRequests         uint32
	OpenTimeout         time.Duration // how long the breaker stays open before probing
	MaxConcurrent        int          // bounded pool size for concurrent calls through the breaker
}

// DefaultBreakerConfig returns the same defaults the teacher used for its
// hand-rolled breaker, re-expressed for gobreaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		MinRequests:         10,
		OpenTimeout:         30 * time.Second,
		MaxConcurrent:       5,
	}
}

// Breaker wraps gobreaker.CircuitBreaker with a bounded-concurrency
// semaphore and a context-aware Execute method.
type Breaker struct {
	cb  *gobreaker.CircuitBreaker
	sem chan struct{}
}

// NewBreaker builds a Breaker from config.
func NewBreaker(cfg BreakerConfig) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		Timeout:     cfg.OpenTimeout,
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > cfg.FailureRatio
		},
	}

	var sem chan struct{}
	if cfg.MaxConcurrent > 0 {
		sem = make(chan struct{}, cfg.MaxConcurrent)
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings), sem: sem}
}

// Execute runs fn with circuit-breaker protection and, if the breaker was
// built with MaxConcurrent > 0, a bounded semaphore. fn must honor ctx's
// deadline; Execute does not enforce one on its own.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if b.sem != nil {
		select {
		case b.sem <- struct{}{}:
			defer func() { <-b.sem }()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	return err
}

// State reports the current breaker state (closed, half-open, open).
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// WithTimeout wraps a parent context with a deadline appropriate for the
// collaborator being called (60s LLM completions, 10s market/economic data).
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}

const (
	// CompleterTimeout is the deadline for Completer calls.
	CompleterTimeout = 60 * time.Second
	// MarketDataTimeout is the deadline for market/economic data calls.
	MarketDataTimeout = 10 * time.Second
)
