package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Batoli19/cavista/internal/config"
	dialog "github.com/Batoli19/cavista/internal/model/dialog"
)

// GeminiProvider is the fallback text provider and the only vision provider.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates the Gemini client from configuration.
func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, userPrompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(assistantSystemPrompt+"\n\n"+userPrompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		if isRateLimitError(err) {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// GenerateVision answers a prompt over attached images. Content is expected
// base64-encoded as received from the HTTP layer.
func (p *GeminiProvider) GenerateVision(ctx context.Context, userPrompt string, files []dialog.FileRef) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(userPrompt)}
	for _, f := range files {
		data, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return "", fmt.Errorf("invalid file payload for %s: %w", f.Name, err)
		}
		mime := f.Type
		if !strings.HasPrefix(mime, "image/") {
			mime = "image/png"
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini vision failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty vision response")
	}
	return text, nil
}
