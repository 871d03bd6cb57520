package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/caselens/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the LLM response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached LLM responses",
	Long: `Delete every cached LLM response under cache.dir.

The memory cache lives only as long as one process, so only the disk and
layered modes leave anything to clear.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.Cache
		if cfg.Mode == "memory" {
			fmt.Fprintln(cmd.OutOrStdout(), "Memory cache is per process; nothing to clear")
			return nil
		}
		cfg.Enabled = true

		c, err := cache.New(cfg)
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared cache: %s\n", cfg.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
