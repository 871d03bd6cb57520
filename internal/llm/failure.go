package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
)

// FailureKind names the reason an AI extraction produced nothing.
type FailureKind string

const (
	KindNotConfigured FailureKind = "not-configured"
	KindTimeout       FailureKind = "timeout"
	KindCanceled      FailureKind = "canceled"
	KindNetwork       FailureKind = "network"
	KindHTTPStatus    FailureKind = "http-status"
	KindParse         FailureKind = "parse"
	KindEmptyResponse FailureKind = "empty-response"
)

// Failure is the typed error every AI extraction path returns. Callers treat
// it as a soft failure: the AI branch contributes nothing.
type Failure struct {
	Kind       FailureKind
	Provider   string
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	provider := f.Provider
	if provider == "" {
		provider = "llm"
	}
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", provider, f.Kind, f.StatusCode, f.Err)
	}
	return fmt.Sprintf("%s: %s: %v", provider, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// KindOf returns the failure kind of err, or "" when err is not a Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Classify wraps a provider error into a Failure.
func Classify(provider string, err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	out := &Failure{Provider: provider, Err: err}
	switch {
	case errors.Is(err, ErrNotConfigured):
		out.Kind = KindNotConfigured
	case errors.Is(err, ErrEmptyResponse):
		out.Kind = KindEmptyResponse
	case errors.Is(err, context.DeadlineExceeded):
		out.Kind = KindTimeout
	case errors.Is(err, context.Canceled):
		out.Kind = KindCanceled
	default:
		if code, ok := statusCode(err); ok {
			out.Kind = KindHTTPStatus
			out.StatusCode = code
			break
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			out.Kind = KindTimeout
			break
		}
		out.Kind = KindNetwork
	}
	return out
}

// statusCode digs the HTTP status out of each SDK's error type.
func statusCode(err error) (int, bool) {
	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) && oaiErr.HTTPStatusCode != 0 {
		return oaiErr.HTTPStatusCode, true
	}
	var oaiReqErr *openai.RequestError
	if errors.As(err, &oaiReqErr) && oaiReqErr.HTTPStatusCode != 0 {
		return oaiReqErr.HTTPStatusCode, true
	}
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		return antErr.StatusCode, true
	}
	var olErr api.StatusError
	if errors.As(err, &olErr) {
		return olErr.StatusCode, true
	}
	return 0, false
}

// IsRetryable reports whether a failed call may succeed on another attempt.
// Cancellation and configuration problems never do; neither does a reply
// the model already produced but that failed to parse.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	f := Classify("", err)
	switch f.Kind {
	case KindTimeout, KindNetwork, KindEmptyResponse:
		return true
	case KindHTTPStatus:
		return f.StatusCode == 429 || f.StatusCode >= 500
	default:
		return false
	}
}
