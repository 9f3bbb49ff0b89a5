package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/0xcro3dile/wikibot-go/internal/domain/ports"
)

// Provider names accepted by NewGenerator.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Settings selects and configures one generative-text provider.
type Settings struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// NewGenerator builds the adapter for s.Provider.
func NewGenerator(ctx context.Context, s Settings) (ports.TextGenerator, error) {
	switch s.Provider {
	case ProviderOpenAI:
		return NewOpenAIAdapter(s.APIKey, s.BaseURL, s.Model, s.Timeout), nil
	case ProviderGemini:
		return NewGeminiAdapter(ctx, s.APIKey, s.BaseURL, s.Model, s.Timeout)
	case ProviderOllama:
		return NewOllamaAdapter(s.BaseURL, s.Model, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", s.Provider)
	}
}
