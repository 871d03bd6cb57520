package llm

import (
	"context"
	"errors"
)

// Provider is an LLM backend: a prompt goes in, completion text comes out.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs a single chat completion
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a provider-neutral chat completion request.
type CompletionRequest struct {
	// System fixes the output language and format
	System string

	// Prompt carries the task and the document text
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	Temperature float64

	// JSON asks the backend for a JSON-only response where supported
	JSON bool
}

// CompletionResponse is the provider's raw answer.
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for one extraction call
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	Temperature float64

	// MaxInputChars bounds the document text placed in the prompt
	MaxInputChars int

	// MaxRetries is zero on the interactive path
	MaxRetries int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "", // Disabled by default
		Timeout:       30,
		MaxTokens:     2000,
		Temperature:   0.1,
		MaxInputChars: 2000,
	}
}

var (
	// ErrNotConfigured means AI extraction was requested without a provider.
	ErrNotConfigured = errors.New("llm provider not configured")

	// ErrEmptyResponse means the provider answered with no content.
	ErrEmptyResponse = errors.New("empty response from llm provider")
)
