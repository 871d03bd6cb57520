package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func anthropicReply(text string) map[string]any {
	return map[string]any{
		"id":            "msg_123",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-3-5-haiku-latest",
		"content":       []map[string]any{{"type": "text", "text": text}},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 50, "output_tokens": 25},
	}
}

func TestAnthropicProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}

		var body struct {
			Model  string `json:"model"`
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
			Messages []json.RawMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if body.Model != "claude-3-5-haiku-latest" {
			t.Errorf("Expected default model, got %s", body.Model)
		}
		if len(body.System) != 1 || body.System[0].Text != SystemPrompt {
			t.Errorf("Expected system prompt block, got %+v", body.System)
		}
		if len(body.Messages) != 1 {
			t.Errorf("Expected one user message, got %d", len(body.Messages))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicReply(completionJSON))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System: SystemPrompt,
		Prompt: "原告张三",
		JSON:   true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != completionJSON {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 75 {
		t.Errorf("Expected 75 tokens, got %d", resp.TokensUsed)
	}
}

func TestAnthropicProvider_NoAPIKey(t *testing.T) {
	_, err := NewAnthropicProvider(Config{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured without API key, got %v", err)
	}
}

func TestAnthropicProvider_Complete_RateLimitNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "Rate limit exceeded"}}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error for 429 status")
	}

	f := Classify("anthropic", err)
	if f.Kind != KindHTTPStatus || f.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected http-status 429, got %s %d", f.Kind, f.StatusCode)
	}
	if !IsRetryable(err) {
		t.Error("Expected 429 to be retryable")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly one HTTP call, got %d", got)
	}
}

func TestAnthropicProvider_Complete_BadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "invalid_request_error", "message": "Invalid request"}}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error for 400 status")
	}
	if IsRetryable(err) {
		t.Error("Expected 400 not to be retryable")
	}
}

func TestAnthropicProvider_Complete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicReply("   "))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if KindOf(Classify("anthropic", err)) != KindEmptyResponse {
		t.Errorf("Expected empty-response, got %v", err)
	}
}

func TestAnthropicProvider_IsAvailable(t *testing.T) {
	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key"})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider with a key to be available")
	}
	if provider.Name() != "anthropic" {
		t.Errorf("Expected name anthropic, got %s", provider.Name())
	}
}
