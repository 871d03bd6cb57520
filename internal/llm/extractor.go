package llm

import (
	"context"
	"time"

	"github.com/ppiankov/caselens/internal/cache"
	"github.com/ppiankov/caselens/internal/logging"
	"github.com/ppiankov/caselens/internal/model"
)

// Waiter blocks until a call for key may proceed. worker.Limiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// Extractor turns document text into AI-sourced elements through a Provider.
// Every error it returns is a *Failure.
type Extractor struct {
	provider Provider
	config   Config

	cache    cache.Cache
	cacheTTL time.Duration
	limiter  Waiter
	logger   logging.Logger

	retries        int
	initialBackoff time.Duration
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithCache reuses completions for identical prompts.
func WithCache(c cache.Cache, ttl time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.cache = c
		e.cacheTTL = ttl
	}
}

// WithLimiter throttles provider calls, keyed by provider name.
func WithLimiter(w Waiter) ExtractorOption {
	return func(e *Extractor) { e.limiter = w }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// WithRetries overrides the configured retry count. Only batch callers
// should set it above zero.
func WithRetries(n int, initialBackoff time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.retries = n
		e.initialBackoff = initialBackoff
	}
}

// NewExtractor creates an extractor. A nil provider yields an extractor
// whose every call fails with KindNotConfigured.
func NewExtractor(p Provider, cfg Config, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		provider: p,
		config:   cfg,
		retries:  cfg.MaxRetries,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNopLogger()
	}
	return e
}

// Name returns the provider name, or "" when no provider is configured.
func (e *Extractor) Name() string {
	if e == nil || e.provider == nil {
		return ""
	}
	return e.provider.Name()
}

// Configured reports whether a provider is attached.
func (e *Extractor) Configured() bool {
	return e != nil && e.provider != nil
}

// Extract prompts the provider with text and parses the reply. The returned
// elements carry the model's raw confidence.
func (e *Extractor) Extract(ctx context.Context, text string) ([]model.Element, error) {
	if !e.Configured() {
		return nil, &Failure{Kind: KindNotConfigured, Err: ErrNotConfigured}
	}
	name := e.provider.Name()

	req := CompletionRequest{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(text, e.config.MaxInputChars),
		Model:       e.config.Model,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
		JSON:        true,
	}

	key := cache.Key(name, req.Model, req.System, req.Prompt)
	if e.cache != nil {
		if raw, ok := e.cache.Get(key); ok {
			payload, err := ParseResponse(string(raw))
			if err == nil {
				e.logger.Debug("llm cache hit", logging.String("provider", name))
				return payload.Elements(), nil
			}
			_ = e.cache.Delete(key)
		}
	}

	var raw string
	err := retry(ctx, e.retries, e.initialBackoff, func() error {
		out, err := e.complete(ctx, req)
		if err != nil {
			return err
		}
		raw = out
		return nil
	})
	if err != nil {
		return nil, Classify(name, err)
	}

	payload, err := ParseResponse(raw)
	if err != nil {
		f := Classify(name, err)
		f.Provider = name
		return nil, f
	}

	if e.cache != nil {
		if err := e.cache.Set(key, []byte(raw), e.cacheTTL); err != nil {
			e.logger.Warn("llm cache write failed", logging.String("provider", name), logging.Err(err))
		}
	}
	return payload.Elements(), nil
}

// complete makes one rate-limited provider call under its own deadline.
func (e *Extractor) complete(ctx context.Context, req CompletionRequest) (string, error) {
	name := e.provider.Name()
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, name); err != nil {
			return "", Classify(name, err)
		}
	}

	timeout := time.Duration(e.config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.provider.Complete(callCtx, req)
	if err != nil {
		return "", Classify(name, err)
	}
	e.logger.Debug("llm completion",
		logging.String("provider", name),
		logging.String("model", resp.Model),
		logging.Int("tokens", resp.TokensUsed),
		logging.Duration("elapsed", time.Since(start)))
	return resp.Text, nil
}
