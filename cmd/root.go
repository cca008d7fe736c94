package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tdang/curfew/internal/config"
)

var (
	// Global flags
	profile  string
	region   string
	tagKey   string
	tagValue string
)

var rootCmd = &cobra.Command{
	Use:   "curfew",
	Short: "Curfew - stop tagged EC2 instances",
	Long: `Curfew discovers EC2 instances carrying a shutdown tag and stops them,
reporting a structured per-instance result. It is meant to be invoked on a
schedule (cron, EventBridge) but also supports manual use.

Batch Commands:
  curfew run                 # Stop every tagged instance, print JSON result
  curfew plan                # Dry run: show what a run would do

Manual Commands:
  curfew stop i-0abc123      # Stop one instance through the same checks
  curfew stop                # Pick an instance interactively

Setup:
  curfew status              # Verify credentials and show configuration

Configuration comes from ~/.curfew/config.yaml, CURFEW_* environment
variables, and flags, in increasing priority. The instance selector
defaults to tag AutoShutdown=yes.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region to use")
	rootCmd.PersistentFlags().StringVar(&tagKey, "tag-key", "", "Tag key selecting instances (default AutoShutdown)")
	rootCmd.PersistentFlags().StringVar(&tagValue, "tag-value", "", "Tag value selecting instances (default yes)")
}

// loadConfig builds the invocation config with flag overrides applied.
func loadConfig() (*config.Config, error) {
	return config.Load(config.Overrides{
		TagKey:   tagKey,
		TagValue: tagValue,
		Profile:  profile,
		Region:   region,
	})
}

// logLevel maps the configured level name onto slog, defaulting to info.
func logLevel(cfg *config.Config) slog.Level {
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
