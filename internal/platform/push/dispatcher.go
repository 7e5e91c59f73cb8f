package push

import (
	"context"
	"log/slog"

	"lab_backend/internal/shared/ratelimiter"
)

// Dispatcher paces provider calls and never fails the caller: every token gets a Result.
type Dispatcher struct {
	provider Provider
	limiter  ratelimiter.RateLimiterInterface
}

// NewDispatcher returns a Dispatcher. A nil limiter disables pacing.
func NewDispatcher(provider Provider, limiter ratelimiter.RateLimiterInterface) *Dispatcher {
	return &Dispatcher{provider: provider, limiter: limiter}
}

// Send delivers n to tokens and returns one Result per token.
func (d *Dispatcher) Send(ctx context.Context, tokens []string, n Notification) []Result {
	if len(tokens) == 0 {
		return nil
	}
	if d.limiter != nil {
		if err := d.limiter.WaitIfNeeded(ctx); err != nil {
			return d.failAll(tokens, err)
		}
	}

	results, err := d.provider.SendEach(ctx, tokens, n)
	if err != nil {
		return d.failAll(tokens, err)
	}
	for _, r := range results {
		if !r.Success {
			slog.Warn("push delivery failed", "token", r.Token, "unregistered", r.Unregistered, "error", r.Err)
		}
	}
	return results
}

func (d *Dispatcher) failAll(tokens []string, err error) []Result {
	slog.Error("push batch failed", "tokens", len(tokens), "error", err)
	results := make([]Result, len(tokens))
	for i, token := range tokens {
		slog.Warn("push delivery failed", "token", token, "error", err)
		results[i] = Result{Token: token, Err: err}
	}
	return results
}
