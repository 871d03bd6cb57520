package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/caselens/internal/config"
	"github.com/ppiankov/caselens/internal/logging"
	"github.com/ppiankov/caselens/internal/model"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string

	// appConfig is loaded once per invocation before any subcommand runs.
	appConfig *model.Config
	logger    logging.Logger = logging.NewNopLogger()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "caselens",
	Short: "caselens - hybrid rule and AI element extraction for court judgments",
	Long: `caselens extracts structured elements from Chinese court judgments:
dates, parties, amounts, cited statutes and key facts.

A deterministic rule extractor always runs. When an LLM provider is
configured, an AI extractor runs alongside it and the two results are
merged, with disagreements reported as conflicts. Any AI failure falls
back to the rule result.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "caselens v%s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.caselens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(versionCmd)
}

// initConfig loads the config file and CASELENS_* variables and installs
// the process logger.
func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	} else if verbose && cfg.Log.Level == "info" {
		cfg.Log.Level = "debug"
	}
	appConfig = cfg

	l, err := logging.NewLogger(logging.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	logger = l
	logging.SetDefault(l)

	if verbose {
		if used := config.Used(cfgFile); used != "" {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
		}
	}
	return nil
}
