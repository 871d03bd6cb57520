package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a judgment ready for extraction.
type Document struct {
	Source      string // path, URL or "-"
	Name        string
	Text        string
	ContentType string
}

// Loader reads judgments from a file, stdin ("-") or an http(s) URL.
// HTML is reduced to its visible text and legacy encodings such as GBK are
// decoded to UTF-8.
type Loader struct {
	fetcher  *Fetcher
	stdin    io.Reader
	maxBytes int64
}

// NewLoader creates a loader. A nil fetcher disables URL sources.
func NewLoader(fetcher *Fetcher, stdin io.Reader, maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Loader{fetcher: fetcher, stdin: stdin, maxBytes: maxBytes}
}

// Load reads source and returns its text.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	var (
		body        []byte
		contentType string
		name        string
		err         error
	)

	switch {
	case source == "-":
		if l.stdin == nil {
			return nil, fmt.Errorf("stdin is not available")
		}
		body, err = readLimited(l.stdin, l.maxBytes)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		name = "stdin"
	case isURL(source):
		if l.fetcher == nil {
			return nil, fmt.Errorf("%s: URL sources are disabled", source)
		}
		res, err := l.fetcher.FetchWithRetry(ctx, source)
		if err != nil {
			return nil, err
		}
		body, contentType, name = res.Body, res.ContentType, res.Name
	default:
		body, err = readFileLimited(source, l.maxBytes)
		if err != nil {
			return nil, err
		}
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		contentType = contentTypeForPath(source)
	}

	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	text, err := decode(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	return &Document{
		Source:      source,
		Name:        name,
		Text:        text,
		ContentType: contentType,
	}, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func readFileLimited(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	body, err := readLimited(f, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return body, nil
}

func contentTypeForPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".htm":
		return "text/html"
	case ".txt", ".md":
		return "text/plain"
	}
	return ""
}

// decode converts body to UTF-8 and, for HTML, to visible text.
func decode(body []byte, contentType string) (string, error) {
	if bytes.HasPrefix(body, []byte("\xef\xbb\xbf")) {
		body = body[3:]
	}

	if !utf8.Valid(body) || strings.Contains(strings.ToLower(contentType), "charset=") {
		r, err := charset.NewReader(bytes.NewReader(body), contentType)
		if err != nil {
			return "", fmt.Errorf("decode charset: %w", err)
		}
		if body, err = io.ReadAll(r); err != nil {
			return "", fmt.Errorf("decode charset: %w", err)
		}
	}

	if strings.Contains(strings.ToLower(contentType), "html") {
		return HTMLText(string(body))
	}
	return string(body), nil
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true,
	"template": true, "iframe": true, "svg": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "tr": true, "li": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "pre": true, "blockquote": true,
}

// HTMLText returns the visible text of an HTML page, one line per block
// element.
func HTMLText(page string) (string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(root)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
