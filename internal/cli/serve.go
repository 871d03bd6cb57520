package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/caselens/internal/logging"
	"github.com/ppiankov/caselens/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction API over HTTP",
	Long: `Serve exposes:
  POST /api/extract   extraction request/response as JSON
  GET  /healthz       liveness, AI provider and its reachability
  GET  /metrics       prometheus metrics

Example:
  caselens serve --addr :8080
  CASELENS_LLM_PROVIDER=openai OPENAI_API_KEY=sk-... caselens serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	addLLMFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := applyLLMFlags(cmd); err != nil {
		return err
	}
	cfg := appConfig
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a, err := newApp(cfg, appOptions{includeFooter: true})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(a.metrics),
		server.WithVersion(Version),
		server.WithAIProvider(a.aiName),
	}
	if a.provider != nil {
		if !a.provider.IsAvailable(ctx) {
			logger.Warn("AI provider unreachable, extractions will fall back to rules until it answers",
				logging.String("provider", a.aiName))
		}
		serverOpts = append(serverOpts, server.WithAICheck(a.provider.IsAvailable))
	}
	srv := server.New(cfg.Server, a.pipeline.Controller(), serverOpts...)

	fmt.Fprintf(os.Stderr, "caselens v%s listening on %s (AI: %s)\n", Version, cfg.Server.Addr, orNone(a.aiName))
	return srv.ListenAndServe(ctx)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
