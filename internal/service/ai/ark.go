package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Batoli19/cavista/internal/config"
)

const assistantSystemPrompt = `You are a concise workplace assistant.
Reply in short, clear sentences. Avoid filler phrases, avoid first-person
disclaimers, and never describe yourself. Answer the request directly.`

// ArkProvider runs text generation through a compiled prompt+model chain.
type ArkProvider struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkProvider compiles the chat chain from the Ark configuration.
func NewArkProvider(ctx context.Context, cfg config.AIConfig) (*ArkProvider, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkProvider{chain: runnable}, nil
}

func (p *ArkProvider) Name() string { return "ark" }

func (p *ArkProvider) Generate(ctx context.Context, userPrompt string) (string, error) {
	response, err := p.chain.Invoke(ctx, map[string]any{
		"system": assistantSystemPrompt,
		"query":  userPrompt,
	})
	if err != nil {
		if isRateLimitError(err) {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	return strings.TrimSpace(response.Content), nil
}

func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}
