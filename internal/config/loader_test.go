package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/caselens/internal/model"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("CASELENS_LLM_PROVIDER", "ollama")
	t.Setenv("CASELENS_LLM_TIMEOUT_SECONDS", "5")
	t.Setenv("CASELENS_LLM_TEMPERATURE", "0.3")
	t.Setenv("CASELENS_CACHE_ENABLED", "true")
	t.Setenv("CASELENS_LLM_BASE_URL", "http://gpu:11434")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.LLM.TimeoutSeconds)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "http://gpu:11434", cfg.LLM.BaseURL)
	assert.Equal(t, 2000, cfg.LLM.MaxInputChars, "untouched keys keep defaults")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
llm:
  provider: openai
  model: gpt-4o-mini
  max_retries: 1
batch:
  output_dir: out
`)
	t.Setenv("CASELENS_LLM_MODEL", "gpt-4o")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model, "env wins over file")
	assert.Equal(t, 1, cfg.LLM.MaxRetries)
	assert.Equal(t, "out", cfg.Batch.OutputDir)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", "llm:\n  provider: gemini\n"},
		{"bad cache mode", "cache:\n  mode: redis\n"},
		{"zero timeout", "llm:\n  timeout_seconds: 0\n"},
		{"malformed", "llm: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
	assert.Empty(t, Used(""))
}

func TestWriteDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := DefaultPath()
	require.Equal(t, filepath.Join(home, ".caselens", "config.yaml"), path)
	require.NoError(t, WriteDefault(path))
	assert.Equal(t, path, Used(""))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg, "written defaults round-trip")

	err = WriteDefault(path)
	assert.True(t, errors.Is(err, ErrExists))
}

func TestMarshal_RedactsKey(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "sk-secret"

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret")
	assert.Contains(t, string(data), "<redacted>")
	assert.Equal(t, "sk-secret", cfg.LLM.APIKey, "input is not mutated")
}
