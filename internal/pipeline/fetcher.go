package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ppiankov/caselens/internal/util"
)

var (
	// ErrDisallowed is returned when robots.txt forbids fetching a URL.
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrTooLarge is returned for documents over the configured byte limit.
	ErrTooLarge = errors.New("document exceeds size limit")
)

// HostWaiter throttles fetches per host and then holds for the host's
// robots.txt crawl delay. *worker.Limiter satisfies it.
type HostWaiter interface {
	WaitURL(ctx context.Context, rawURL string, crawlDelay time.Duration) error
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Fetcher downloads judgments published as web pages.
type Fetcher struct {
	httpClient     *http.Client
	userAgent      string
	maxBytes       int64
	robots         *util.RobotsChecker
	limiter        HostWaiter
	maxRetries     int
	initialBackoff time.Duration
}

type FetcherOption func(*Fetcher)

// WithRobots makes every fetch consult robots.txt first.
func WithRobots(r *util.RobotsChecker) FetcherOption {
	return func(f *Fetcher) { f.robots = r }
}

func WithHostLimiter(l HostWaiter) FetcherOption {
	return func(f *Fetcher) { f.limiter = l }
}

// WithFetchRetries retries network errors, 429 and 5xx responses with
// exponential backoff.
func WithFetchRetries(n int, initial time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.maxRetries = n
		f.initialBackoff = initial
	}
}

// NewFetcher creates a fetcher. A nil client gets a plain one with a 15s
// timeout.
func NewFetcher(client *http.Client, userAgent string, maxBytes int64, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		}
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	f := &Fetcher{
		httpClient:     client,
		userAgent:      userAgent,
		maxBytes:       maxBytes,
		initialBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchResult is a downloaded page.
type FetchResult struct {
	Body        []byte
	ContentType string
	StatusCode  int
	FinalURL    string
	Name        string
}

// Fetch retrieves rawURL once.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}
	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.6")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	return &FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FinalURL:    finalURL,
		Name:        nameFromURL(finalURL),
	}, nil
}

// FetchWithRetry is Fetch with the configured retry policy.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.maxRetries <= 0 {
		return f.Fetch(ctx, rawURL)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = f.initialBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(f.maxRetries)), ctx)

	var result *FetchResult
	err := backoff.Retry(func() error {
		r, err := f.Fetch(ctx, rawURL)
		if err == nil {
			result = r
			return nil
		}
		var se *StatusError
		if errors.Is(err, ErrDisallowed) || errors.Is(err, ErrTooLarge) || (errors.As(err, &se) && !se.retryable()) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// readLimited reads r to the end, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return body, nil
}

// nameFromURL turns the last path segment into a document name.
func nameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	p := strings.Trim(parsed.Path, "/")
	if p == "" {
		return parsed.Host
	}

	last := path.Base(p)
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return last
}
