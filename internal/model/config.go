package model

import (
	"fmt"
	"strings"
)

// Config is the complete caselens configuration.
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Extraction   ExtractionConfig   `yaml:"extraction" mapstructure:"extraction"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Batch        BatchConfig        `yaml:"batch" mapstructure:"batch"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
}

// LLMConfig configures the AI extraction branch. An empty Provider disables it.
type LLMConfig struct {
	Provider       string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model          string  `yaml:"model" mapstructure:"model"`
	APIKey         string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL        string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens      int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature    float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxInputChars  int     `yaml:"max_input_chars" mapstructure:"max_input_chars"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	HTTPProxy      string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy     string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy        string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

type ExtractionConfig struct {
	MaxTextChars int `yaml:"max_text_chars" mapstructure:"max_text_chars"`
	MinFactRunes int `yaml:"min_fact_runes" mapstructure:"min_fact_runes"`
	MaxFactRunes int `yaml:"max_fact_runes" mapstructure:"max_fact_runes"`
}

type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	Mode       string `yaml:"mode" mapstructure:"mode"` // memory, disk, layered
	TTLSeconds int    `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
	Dir        string `yaml:"dir" mapstructure:"dir"`
}

type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`

	// Hosts overrides the fetch rate for individual court sites.
	Hosts []HostRate `yaml:"hosts,omitempty" mapstructure:"hosts"`
}

// HostRate is a per-host fetch rate.
type HostRate struct {
	Host              string  `yaml:"host" mapstructure:"host"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst,omitempty" mapstructure:"burst"`
}

type BatchConfig struct {
	MaxRetries       int    `yaml:"max_retries" mapstructure:"max_retries"`
	InitialBackoffMS int    `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	OutputDir        string `yaml:"output_dir" mapstructure:"output_dir"`
}

type ServerConfig struct {
	Addr                string `yaml:"addr" mapstructure:"addr"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ClientRequestsPerSecond limits /api/extract per client IP; zero disables it.
	ClientRequestsPerSecond float64 `yaml:"client_requests_per_second" mapstructure:"client_requests_per_second"`
	ClientBurst             int     `yaml:"client_burst" mapstructure:"client_burst"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// HTTPConfig governs fetching judgments by URL.
type HTTPConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots  bool   `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "",
			TimeoutSeconds: 30,
			MaxTokens:      2000,
			Temperature:    0.1,
			MaxInputChars:  2000,
			MaxRetries:     0,
		},
		Extraction: ExtractionConfig{
			MaxTextChars: 200000,
			MinFactRunes: 10,
			MaxFactRunes: 300,
		},
		Cache: CacheConfig{
			Enabled:    false,
			Mode:       "memory",
			TTLSeconds: 3600,
			Dir:        ".caselens-cache",
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Batch: BatchConfig{
			MaxRetries:       2,
			InitialBackoffMS: 500,
			OutputDir:        "reports",
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:      10,
			WriteTimeoutSeconds:     60,
			ClientRequestsPerSecond: 5,
			ClientBurst:             10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 15,
			UserAgent:      "caselens/0.1 (+https://github.com/ppiankov/caselens)",
			MaxBodyBytes:   5 * 1024 * 1024,
			RespectRobots:  true,
		},
	}
}

// Validate rejects settings that would make the engine misbehave.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "", "openai", "anthropic", "claude", "ollama":
	default:
		return fmt.Errorf("llm.provider: unknown provider %q (supported: openai, anthropic, ollama)", c.LLM.Provider)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.MaxInputChars <= 0 {
		return fmt.Errorf("llm.max_input_chars must be positive, got %d", c.LLM.MaxInputChars)
	}
	if c.LLM.MaxRetries < 0 || c.Batch.MaxRetries < 0 {
		return fmt.Errorf("retry counts must not be negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature)
	}
	switch c.Cache.Mode {
	case "memory", "disk", "layered":
	default:
		return fmt.Errorf("cache.mode: unknown mode %q (supported: memory, disk, layered)", c.Cache.Mode)
	}
	if c.Extraction.MaxTextChars <= 0 {
		return fmt.Errorf("extraction.max_text_chars must be positive")
	}
	for _, h := range c.RateLimiting.Hosts {
		if h.Host == "" || h.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.hosts: each entry needs a host and a positive requests_per_second")
		}
	}
	return nil
}
