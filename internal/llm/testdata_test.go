package llm

import (
	"context"
	"sync"
)

// completionJSON is a well-formed model reply for the loan judgment.
const completionJSON = `{
  "dates": [{"date": "2024-03-15", "type": "filing", "description": "立案日期", "confidence": 0.9}],
  "parties": [{"name": "张三", "role": "plaintiff", "confidence": 0.8}],
  "amounts": [{"value": "100万元", "currency": "CNY", "purpose": "principal", "confidence": 0.85}],
  "legalClauses": [{"law": "《中华人民共和国民法典》", "article": "第六百六十七条", "confidence": 0.9}],
  "facts": [{"text": "原告张三与被告李四签订借款合同", "confidence": 0.75}]
}`

// MockProvider is a Provider that returns a canned reply and counts calls.
type MockProvider struct {
	name      string
	available bool
	response  string
	err       error

	mu    sync.Mutex
	calls int
	last  CompletionRequest
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) IsAvailable(_ context.Context) bool { return m.available }

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	m.calls++
	m.last = req
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return &CompletionResponse{Text: m.response, Model: "mock", TokensUsed: 42}, nil
}

func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
