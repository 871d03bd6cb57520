package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/ppiankov/caselens/internal/util"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "qwen2.5:7b"
)

// OllamaProvider implements the Provider interface for Ollama local models
type OllamaProvider struct {
	client *api.Client
	model  string
	config Config
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	base, err := url.Parse(strings.TrimSuffix(firstNonEmpty(config.BaseURL, defaultOllamaURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL: %w", err)
	}

	httpClient := util.NewHTTPClient(0, config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	return &OllamaProvider{
		client: api.NewClient(base, httpClient),
		model:  firstNonEmpty(config.Model, defaultOllamaModel),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks if the Ollama server answers a heartbeat
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return p.client.Heartbeat(ctx) == nil
}

// Complete runs a non-streaming generate call
func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := firstNonEmpty(req.Model, p.model)

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	stream := false
	genReq := &api.GenerateRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}
	if maxTokens > 0 {
		genReq.Options["num_predict"] = maxTokens
	}
	if req.JSON {
		genReq.Format = json.RawMessage(`"json"`)
	}

	var text strings.Builder
	var tokens int
	err := p.client.Generate(ctx, genReq, func(resp api.GenerateResponse) error {
		text.WriteString(resp.Response)
		if resp.Done {
			tokens = resp.PromptEvalCount + resp.EvalCount
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Ollama API error: %w", err)
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return nil, ErrEmptyResponse
	}

	return &CompletionResponse{
		Text:       out,
		Model:      model,
		TokensUsed: tokens,
	}, nil
}
