package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/pipeline"
)

// Extractor extracts one document source. *pipeline.Pipeline satisfies it.
type Extractor interface {
	ExtractSource(ctx context.Context, source string, opts model.ExtractionOptions) (*pipeline.SourceResult, error)
}

// DocumentJob extracts one source.
type DocumentJob struct {
	Index     int
	Source    string
	Options   model.ExtractionOptions
	Extractor Extractor
}

func (j *DocumentJob) Execute(ctx context.Context) Result {
	result, err := j.Extractor.ExtractSource(ctx, j.Source, j.Options)
	return &DocumentResult{
		Index:  j.Index,
		Source: j.Source,
		Result: result,
		Error:  err,
	}
}

// DocumentResult is the outcome of one DocumentJob.
type DocumentResult struct {
	Index  int
	Source string
	Result *pipeline.SourceResult
	Error  error
}

func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many documents concurrently.
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
	options     model.ExtractionOptions
}

func NewBatchProcessor(extractor Extractor, concurrency int, opts model.ExtractionOptions) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
		options:     opts,
	}
}

// ProcessSources extracts every source and returns the results in input
// order. A canceled ctx leaves later sources without a result.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*DocumentResult {
	if len(sources) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, source := range sources {
		pool.Submit(&DocumentJob{
			Index:     i,
			Source:    source,
			Options:   b.options,
			Extractor: b.extractor,
		})
	}

	results := pool.Wait()

	out := make([]*DocumentResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*DocumentResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessInput extracts every document named by input, a directory or a
// list file.
func (b *BatchProcessor) ProcessInput(ctx context.Context, input string) ([]*DocumentResult, error) {
	sources, err := ReadSources(input)
	if err != nil {
		return nil, err
	}
	return b.ProcessSources(ctx, sources), nil
}

var documentExtensions = map[string]bool{
	".txt":  true,
	".html": true,
	".htm":  true,
	".md":   true,
}

// ReadSources expands input into document sources. A directory yields its
// .txt, .html, .htm and .md files in name order. Any other file is read as a
// list with one path or URL per line; blank lines and # comments are
// skipped, duplicates dropped, and relative paths resolved against the list
// file's directory.
func ReadSources(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return readDir(input)
	}
	return readList(input)
}

func readDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var sources []string
	for _, e := range entries {
		if e.IsDir() || !documentExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		sources = append(sources, filepath.Join(dir, e.Name()))
	}
	return sources, nil
}

func readList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(path)
	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !strings.Contains(line, "://") && !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
