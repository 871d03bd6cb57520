package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/caselens/internal/extract"
	"github.com/ppiankov/caselens/internal/metrics"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/pipeline"
)

const judgment = `民事判决书
原告：张三，男。
被告：李四，男。
原告张三诉被告李四民间借贷纠纷一案，本院于2024年3月15日立案受理。
原告张三请求判令被告归还借款本金100万元。`

// countingAI fails every call and counts them.
type countingAI struct{ calls int32 }

func (a *countingAI) Name() string { return "counting" }

func (a *countingAI) Extract(ctx context.Context, text string) ([]model.Element, error) {
	atomic.AddInt32(&a.calls, 1)
	return nil, errors.New("provider down")
}

type brokenExtractor struct{}

func (brokenExtractor) Extract(ctx context.Context, req model.ExtractionRequest) (*model.ExtractionResponse, error) {
	return nil, errors.New("boom")
}

func newTestServer(ai pipeline.AIExtractor, opts ...Option) (*Server, *metrics.Metrics) {
	m := metrics.New()
	controller := pipeline.NewController(extract.NewRuleExtractor(), ai, pipeline.WithMetrics(m))
	opts = append([]Option{WithMetrics(m), WithVersion("test")}, opts...)
	return New(model.ServerConfig{Addr: "127.0.0.1:0"}, controller, opts...), m
}

func post(t *testing.T, h http.Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestExtract_Success(t *testing.T) {
	ai := &countingAI{}
	s, _ := newTestServer(ai)

	body, err := json.Marshal(model.ExtractionRequest{Text: judgment})
	require.NoError(t, err)
	rec := post(t, s.Handler(), string(body), map[string]string{"X-Request-ID": "abc-123"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	var resp model.ExtractionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, model.SourceRule, resp.Data.Source, "failing AI degrades to rule output")
	assert.Equal(t, model.MethodRuleBased, resp.Metadata.ExtractionMethod)
	assert.Equal(t, "abc-123", resp.Metadata.RequestID)
	assert.Equal(t, "民间借贷纠纷", resp.Data.CaseType)
	assert.NotEmpty(t, resp.Data.Parties)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ai.calls))
}

func TestExtract_AIDisabled(t *testing.T) {
	ai := &countingAI{}
	s, _ := newTestServer(ai)

	rec := post(t, s.Handler(), `{"text":"`+strings.ReplaceAll(judgment, "\n", `\n`)+`","options":{"enableAI":false}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ai.calls))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "request ID is minted when absent")
}

func TestExtract_EmptyText(t *testing.T) {
	ai := &countingAI{}
	s, _ := newTestServer(ai)

	for _, body := range []string{`{"text":""}`, `{}`, `{"text":"   "}`} {
		rec := post(t, s.Handler(), body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&ai.calls), "no extraction is attempted")
}

func TestExtract_MalformedBody(t *testing.T) {
	s, _ := newTestServer(nil)
	rec := post(t, s.Handler(), `{"text":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestExtract_BodyTooLarge(t *testing.T) {
	s, _ := newTestServer(nil, WithMaxBodyBytes(16))
	rec := post(t, s.Handler(), `{"text":"`+strings.Repeat("x", 64)+`"}`, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestExtract_InternalError(t *testing.T) {
	s := New(model.ServerConfig{}, brokenExtractor{})
	rec := post(t, s.Handler(), `{"text":"x"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(nil, WithAIProvider("openai"))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test","ai":"openai"}`, rec.Body.String())
}

func TestHealthz_ReportsAIAvailability(t *testing.T) {
	calls := 0
	s, _ := newTestServer(nil,
		WithAIProvider("ollama"),
		WithAICheck(func(context.Context) bool { calls++; return false }),
	)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test","ai":"ollama","ai_available":false}`, rec.Body.String())
	assert.Equal(t, 1, calls)
}

func TestExtract_ClientRateLimit(t *testing.T) {
	controller := pipeline.NewController(extract.NewRuleExtractor(), nil)
	s := New(model.ServerConfig{ClientRequestsPerSecond: 0.001, ClientBurst: 1}, controller, WithVersion("test"))
	h := s.Handler()

	require.Equal(t, http.StatusOK, post(t, h, `{"text":"原告：张三。"}`, nil).Code)

	rec := post(t, h, `{"text":"原告：张三。"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")

	health := httptest.NewRecorder()
	h.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code, "health checks are never limited")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(&countingAI{})
	post(t, s.Handler(), `{"text":"原告：张三。"}`, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `caselens_extractions_total{source="rule"} 1`)
	assert.Contains(t, body, `caselens_ai_failures_total{kind="network"} 1`)
}

func TestMetricsEndpoint_AbsentWithoutMetrics(t *testing.T) {
	s := New(model.ServerConfig{}, brokenExtractor{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s, _ := newTestServer(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
