package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/caselens/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noAI, provisions and noFooter are defined in extract.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Extract many judgments in parallel",
	Long: `Batch extracts every document named by the input:
- a directory: every .txt, .md, .html and .htm file in it
- a list file: one path or URL per line, # starts a comment

Documents run on a worker pool. LLM calls and URL fetches retry with
exponential backoff (batch.max_retries). One JSON and one Markdown report
is written per document.

Example:
  caselens batch ./judgments
  caselens batch sources.txt --concurrency 8 --output-dir ./reports
  caselens batch ./judgments --no-ai --provisions`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.batch_workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default: batch.output_dir)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noAI, "no-ai", false, "rule extraction only")
	batchCmd.Flags().BoolVar(&provisions, "provisions", false, "add relevant provisions and legal references")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	if err := applyLLMFlags(cmd); err != nil {
		return err
	}
	cfg := appConfig
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}
	if outputDir == "" {
		outputDir = cfg.Batch.OutputDir
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	a, err := newApp(cfg, appOptions{
		includeFooter:  !noFooter,
		retries:        cfg.Batch.MaxRetries,
		initialBackoff: time.Duration(cfg.Batch.InitialBackoffMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  caselens Batch Extraction\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if a.aiName != "" && !noAI {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s (retries: %d)\n", a.aiName, cfg.LLM.Model, cfg.Batch.MaxRetries)
	} else {
		fmt.Fprintf(os.Stderr, "  LLM:          none (rule-based)\n")
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sources, err := worker.ReadSources(input)
	if err != nil {
		return fmt.Errorf("read sources: %w", err)
	}
	fmt.Fprintf(os.Stderr, "⚙️  Processing %d documents with %d workers...\n\n", len(sources), concurrency)

	processor := worker.NewBatchProcessor(a.pipeline, concurrency, extractionOptions(noAI, provisions))
	results := processor.ProcessSources(ctx, sources)

	successCount := 0
	failureCount := 0
	slugs := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			a.metrics.BatchDocument("failure")
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		slug := uniqueSlug(slugs, sanitizeFilename(result.Result.Document.Name))
		if _, _, err := a.pipeline.WriteReports(result.Result, outputDir, slug); err != nil {
			failureCount++
			a.metrics.BatchDocument("failure")
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, err)
			continue
		}

		successCount++
		a.metrics.BatchDocument("success")
		data := result.Result.Response.Data
		fmt.Fprintf(os.Stderr, "✓ %s (%s, confidence %.2f, conflicts %d)\n",
			result.Result.Document.Name, data.Source, data.Confidence, len(data.Conflicts))
	}
	skipped := len(sources) - len(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(sources))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "  Skipped:   %d (timeout)\n", skipped)
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if successCount == 0 && len(sources) > 0 {
		return fmt.Errorf("no documents extracted")
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a document name into a report file stem.
func sanitizeFilename(s string) string {
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")
	if s == "" {
		s = "document"
	}

	// Limit length without splitting a rune
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	return s
}

// uniqueSlug appends -2, -3, ... to repeated stems.
func uniqueSlug(seen map[string]int, slug string) string {
	seen[slug]++
	if n := seen[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
