package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/caselens/internal/cache"
	"github.com/ppiankov/caselens/internal/extract"
	"github.com/ppiankov/caselens/internal/llm"
	"github.com/ppiankov/caselens/internal/logging"
	"github.com/ppiankov/caselens/internal/metrics"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/pipeline"
	"github.com/ppiankov/caselens/internal/util"
	"github.com/ppiankov/caselens/internal/worker"
)

// app is everything a command needs to extract documents.
type app struct {
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
	aiName   string
	// provider is nil when AI extraction is off.
	provider llm.Provider
}

// appOptions are per-command knobs layered over the loaded config.
type appOptions struct {
	includeFooter bool
	// retries applies to both LLM calls and URL fetches; zero on the
	// interactive path.
	retries        int
	initialBackoff time.Duration
}

// llmFlags are the provider overrides shared by extract, batch and serve.
type llmFlags struct {
	provider string
	model    string
}

// apply copies explicitly set flags into cfg. Missing credentials are not
// an error here: newApp runs rule-only in that case.
func (f llmFlags) apply(cfg *model.Config, providerSet, modelSet bool) error {
	if providerSet {
		cfg.LLM.Provider = f.provider
	}
	if modelSet {
		cfg.LLM.Model = f.model
	}
	if !providerSet {
		return nil
	}
	return cfg.Validate()
}

// newApp wires the extraction stack described by cfg. A provider without
// credentials disables AI extraction with a warning.
func newApp(cfg *model.Config, opts appOptions) (*app, error) {
	m := metrics.New()

	llmCfg := llm.ConfigFromModel(cfg.LLM)
	provider, err := llm.NewProvider(llmCfg)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Warn("AI extraction disabled",
			logging.String("provider", cfg.LLM.Provider),
			logging.Err(err),
		)
		provider = nil
	case err != nil:
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	var ai pipeline.AIExtractor
	aiName := ""
	if provider != nil {
		aiCache, err := cache.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		extractorOpts := []llm.ExtractorOption{
			llm.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst)),
			llm.WithLogger(logger.Named("llm")),
		}
		if aiCache != nil {
			extractorOpts = append(extractorOpts, llm.WithCache(aiCache, time.Duration(cfg.Cache.TTLSeconds)*time.Second))
		}
		if opts.retries > 0 {
			extractorOpts = append(extractorOpts, llm.WithRetries(opts.retries, opts.initialBackoff))
		}
		ai = llm.NewExtractor(provider, llmCfg, extractorOpts...)
		aiName = provider.Name()
	}

	rule := extract.NewRuleExtractor(extract.WithFactBounds(cfg.Extraction.MinFactRunes, cfg.Extraction.MaxFactRunes))
	controller := pipeline.NewController(rule, ai,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
		pipeline.WithMaxChars(cfg.Extraction.MaxTextChars),
	)

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	client := util.NewHTTPClient(timeout, cfg.LLM.HTTPProxy, cfg.LLM.HTTPSProxy, cfg.LLM.NoProxy)
	hosts := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst)
	for _, h := range cfg.RateLimiting.Hosts {
		hosts.SetRate(h.Host, h.RequestsPerSecond, h.Burst)
	}
	fetchOpts := []pipeline.FetcherOption{
		pipeline.WithHostLimiter(hosts),
	}
	if cfg.HTTP.RespectRobots {
		fetchOpts = append(fetchOpts, pipeline.WithRobots(util.NewRobotsChecker(client, cfg.HTTP.UserAgent, timeout)))
	}
	if opts.retries > 0 {
		fetchOpts = append(fetchOpts, pipeline.WithFetchRetries(opts.retries, opts.initialBackoff))
	}
	fetcher := pipeline.NewFetcher(client, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, fetchOpts...)
	loader := pipeline.NewLoader(fetcher, os.Stdin, cfg.HTTP.MaxBodyBytes)

	return &app{
		pipeline: pipeline.NewPipeline(loader, controller, pipeline.NewRenderer(opts.includeFooter)),
		metrics:  m,
		aiName:   aiName,
		provider: provider,
	}, nil
}

// extractionOptions builds request options from the --no-ai and
// --provisions flags.
func extractionOptions(noAI, provisions bool) model.ExtractionOptions {
	opts := model.ExtractionOptions{EnhanceWithProvisions: provisions}
	if noAI {
		opts.EnableAI = model.Bool(false)
	}
	return opts
}
