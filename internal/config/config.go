// Package config loads process configuration: defaults, then an optional
// YAML file, then environment variables. Read-only once loaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/0xcro3dile/wikibot-go/internal/adapters/llm"
)

// ErrMissingToken is returned when no Discord token is configured.
var ErrMissingToken = errors.New("DISCORD_TOKEN not set")

// Config is the process-wide configuration.
type Config struct {
	DiscordToken string `yaml:"discord_token" env:"DISCORD_TOKEN"`
	GuildID      string `yaml:"guild_id" env:"DISCORD_GUILD_ID"`

	AI        AIConfig        `yaml:"ai"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`

	HTTPAddr     string        `yaml:"http_addr" env:"WIKIBOT_HTTP_ADDR"`
	HTTPTimeout  time.Duration `yaml:"http_timeout" env:"WIKIBOT_HTTP_TIMEOUT"`
	LogLevel     string        `yaml:"log_level" env:"WIKIBOT_LOG_LEVEL"`
	OTelEndpoint string        `yaml:"otel_endpoint" env:"WIKIBOT_OTEL_ENDPOINT"`
}

// AIConfig selects the optional generative-text provider.
type AIConfig struct {
	Provider      string `yaml:"provider" env:"AI_PROVIDER"`
	Model         string `yaml:"model" env:"AI_MODEL"`
	OpenAIKey     string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	GeminiKey     string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	OllamaURL     string `yaml:"ollama_url" env:"OLLAMA_URL"`
}

// WikipediaConfig configures the encyclopedia client.
type WikipediaConfig struct {
	Language  string `yaml:"language" env:"WIKI_LANGUAGE"`
	UserAgent string `yaml:"user_agent" env:"WIKI_USER_AGENT"`
}

// Default returns the configuration used before any file or env is applied.
func Default() Config {
	return Config{
		HTTPAddr:    ":8080",
		HTTPTimeout: 30 * time.Second,
		LogLevel:    "info",
		Wikipedia: WikipediaConfig{
			Language:  "en",
			UserAgent: "WikiBot/1.0 (https://github.com/0xcro3dile/wikibot-go)",
		},
	}
}

// Load builds the configuration. path may be empty; a missing file at a
// non-empty path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return ErrMissingToken
	}
	if _, err := c.LLMSettings(); err != nil {
		return err
	}
	return nil
}

// AIEnabled reports whether a generative-text provider is configured.
func (c Config) AIEnabled() bool {
	s, err := c.LLMSettings()
	return err == nil && s.Provider != ""
}

// LLMSettings resolves the generative provider. An explicit provider must
// have its credential; otherwise the first configured one wins
// (OpenAI, then Gemini, then Ollama). Empty Provider means AI is disabled.
func (c Config) LLMSettings() (llm.Settings, error) {
	s := llm.Settings{Model: c.AI.Model, Timeout: c.HTTPTimeout}

	provider := strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if provider == "" {
		switch {
		case c.AI.OpenAIKey != "":
			provider = llm.ProviderOpenAI
		case c.AI.GeminiKey != "":
			provider = llm.ProviderGemini
		case c.AI.OllamaURL != "":
			provider = llm.ProviderOllama
		default:
			return s, nil
		}
	}

	switch provider {
	case llm.ProviderOpenAI:
		s.APIKey, s.BaseURL = c.AI.OpenAIKey, c.AI.OpenAIBaseURL
		if s.APIKey == "" {
			return s, nil
		}
	case llm.ProviderGemini:
		s.APIKey = c.AI.GeminiKey
		if s.APIKey == "" {
			return s, nil
		}
	case llm.ProviderOllama:
		s.BaseURL = c.AI.OllamaURL
		if s.BaseURL == "" {
			return s, nil
		}
	case "none", "disabled":
		return s, nil
	default:
		return s, fmt.Errorf("unknown AI provider %q", c.AI.Provider)
	}

	s.Provider = provider
	return s, nil
}
