package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func robotsServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	robots := "User-agent: caselens\nDisallow: /private/\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n"
	var hits int32
	server := robotsServer(t, http.StatusOK, robots, &hits)
	defer server.Close()

	checker := NewRobotsChecker(nil, "caselens/0.1 (+https://github.com/ppiankov/caselens)", 5*time.Second)
	ctx := context.Background()

	tests := []struct {
		path    string
		allowed bool
	}{
		{"/judgments/1.html", true},
		{"/private/2.html", false},
		{"", true},
	}
	for _, tt := range tests {
		allowed, delay, err := checker.CanFetch(ctx, server.URL+tt.path)
		if err != nil {
			t.Fatalf("CanFetch(%q): %v", tt.path, err)
		}
		if allowed != tt.allowed {
			t.Errorf("CanFetch(%q) = %v, want %v", tt.path, allowed, tt.allowed)
		}
		if delay != 2*time.Second {
			t.Errorf("crawl delay = %v, want 2s", delay)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}
}

func TestRobotsChecker_OtherAgentsBlocked(t *testing.T) {
	server := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /\n", nil)
	defer server.Close()

	checker := NewRobotsChecker(nil, "caselens/0.1", 5*time.Second)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/a")
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("wildcard disallow should apply to caselens")
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := robotsServer(t, http.StatusNotFound, "", nil)
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "caselens/0.1", 0)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/a")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("404 robots.txt should allow everything")
	}
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker(nil, "caselens/0.1", 200*time.Millisecond)
	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/a")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("unreachable robots.txt should allow the fetch")
	}
}

func TestRobotsChecker_BadURL(t *testing.T) {
	checker := NewRobotsChecker(nil, "caselens/0.1", time.Second)
	if _, _, err := checker.CanFetch(context.Background(), "ftp://example.com/a"); err == nil {
		t.Error("expected error for non-http scheme")
	}
	if _, _, err := checker.CanFetch(context.Background(), "::bad"); err == nil {
		t.Error("expected error for unparsable URL")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"caselens/0.1 (+https://github.com/ppiankov/caselens)": "caselens",
		"caselens":                                             "caselens",
		"":                                                     "",
		"Mozilla/5.0":                                          "Mozilla",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}
