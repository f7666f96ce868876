package ai

import (
	"context"
	"strings"
)

// LocalProvider is the terminal fallback. It never fails, so a command turn
// always produces an answer even with every remote provider down.
type LocalProvider struct{}

func (LocalProvider) Name() string { return "local" }

func (LocalProvider) Generate(ctx context.Context, userPrompt string) (string, error) {
	prompt := strings.ToLower(userPrompt)
	switch {
	case strings.Contains(prompt, "plan"):
		return "I could not reach the main models right now, but I can still draft a basic plan. Say 'generate plan' to continue.", nil
	case strings.Contains(prompt, "summar"):
		return "I could not reach the main models right now, so I cannot summarize this yet. Please retry in a moment.", nil
	default:
		return "I could not reach the main models right now. I noted your request; please retry in a moment.", nil
	}
}
