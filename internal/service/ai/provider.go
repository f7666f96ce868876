package ai

import (
	"context"
	"errors"
)

// ErrRateLimited marks a provider response that should be retried after a
// short backoff before falling through to the next provider.
var ErrRateLimited = errors.New("ai: rate limited")

// Provider is a single text-generation backend. Providers are tried in
// order; the first success wins.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
