package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noAI        bool
	provisions  bool
	noFooter    bool
	quiet       bool
	llmOverride llmFlags
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file|url|->",
	Short: "Extract elements from one judgment",
	Long: `Extract reads one judgment from a file, an http(s) URL or stdin ("-")
and prints the extraction response as JSON.

Rule extraction always runs. AI extraction runs when an LLM provider is
configured and --no-ai is not set; if it fails for any reason the rule
result is returned.

Example:
  caselens extract judgment.txt
  caselens extract judgment.txt --json out.json --md out.md --provisions
  cat judgment.txt | caselens extract - --llm-provider openai --llm-model gpt-4o-mini
  caselens extract https://example.com/judgment/123 --no-ai`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON response to this path instead of stdout")
	extractCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	extractCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall extraction timeout")
	extractCmd.Flags().BoolVar(&noAI, "no-ai", false, "rule extraction only")
	extractCmd.Flags().BoolVar(&provisions, "provisions", false, "add relevant provisions and legal references")
	extractCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	extractCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the summary on stderr")
	addLLMFlags(extractCmd)
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmOverride.provider, "llm-provider", "", "LLM provider (openai, anthropic, ollama); overrides config")
	cmd.Flags().StringVar(&llmOverride.model, "llm-model", "", "LLM model name; overrides config")
}

func applyLLMFlags(cmd *cobra.Command) error {
	return llmOverride.apply(appConfig,
		cmd.Flags().Changed("llm-provider"),
		cmd.Flags().Changed("llm-model"))
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := args[0]
	if err := applyLLMFlags(cmd); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := newApp(appConfig, appOptions{includeFooter: !noFooter})
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracting: %s\n", source)
		if a.aiName != "" && !noAI {
			fmt.Fprintf(os.Stderr, "AI provider: %s\n", a.aiName)
		} else {
			fmt.Fprintf(os.Stderr, "AI provider: none (rule-based)\n")
		}
		fmt.Fprintln(os.Stderr)
	}

	result, err := a.pipeline.ExtractSource(ctx, source, extractionOptions(noAI, provisions))
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	renderer := a.pipeline.Renderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(result.Response, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	} else {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result.Response); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result.Response, result.Document.Name, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	if !quiet {
		a.pipeline.PrintSummary(cmd.ErrOrStderr(), result)
	}
	return nil
}
