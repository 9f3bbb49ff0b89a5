package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xcro3dile/wikibot-go/internal/domain/ports"
)

// OpenAIAdapter implements ports.TextGenerator against any OpenAI-compatible
// /chat/completions endpoint.
type OpenAIAdapter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIAdapter creates a new OpenAI adapter.
func NewOpenAIAdapter(apiKey, baseURL, model string, timeout time.Duration) *OpenAIAdapter {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Name identifies the provider.
func (a *OpenAIAdapter) Name() string { return "openai" }

// Complete runs one chat completion. No retries: a failure is reported once.
func (a *OpenAIAdapter) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	jsonData, err := json.Marshal(openAIRequest{
		Model:       a.model,
		Messages:    buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var completion openAIResponse
	decodeErr := json.Unmarshal(body, &completion)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && completion.Error != nil {
			return "", fmt.Errorf("OpenAI returned status %d: %s", resp.StatusCode, completion.Error.Message)
		}
		return "", fmt.Errorf("OpenAI returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decoding response: %w", decodeErr)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("OpenAI error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
