package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/0xcro3dile/wikibot-go/internal/domain/ports"
)

// GeminiAdapter implements ports.TextGenerator using Google's Gemini API.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

// NewGeminiAdapter creates a new Gemini adapter. baseURL is only set in tests.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, timeout time.Duration) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiAdapter{client: client, model: model}, nil
}

// Name identifies the provider.
func (a *GeminiAdapter) Name() string { return "gemini" }

// Complete runs one GenerateContent call.
func (a *GeminiAdapter) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	result, err := a.client.Models.GenerateContent(ctx,
		a.model,
		[]*genai.Content{genai.NewContentFromText(req.UserContent, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("calling Gemini: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned no text")
	}
	return text, nil
}
