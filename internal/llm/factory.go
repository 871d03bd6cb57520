package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/caselens/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "anthropic", "claude":
		p, err := NewAnthropicProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		p, err := NewOllamaProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "":
		// No provider configured - return nil (AI extraction disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config, filling the API
// key and base URL from the provider's conventional environment variables
// when the config leaves them empty.
func ConfigFromModel(m model.LLMConfig) Config {
	cfg := Config{
		Provider:      m.Provider,
		Model:         m.Model,
		APIKey:        m.APIKey,
		BaseURL:       m.BaseURL,
		Timeout:       m.TimeoutSeconds,
		MaxTokens:     m.MaxTokens,
		Temperature:   m.Temperature,
		MaxInputChars: m.MaxInputChars,
		MaxRetries:    m.MaxRetries,
		HTTPProxy:     m.HTTPProxy,
		HTTPSProxy:    m.HTTPSProxy,
		NoProxy:       m.NoProxy,
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
	return cfg
}
