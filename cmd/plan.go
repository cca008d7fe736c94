package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	awsx "github.com/tdang/curfew/internal/aws"
	"github.com/tdang/curfew/internal/logging"
	"github.com/tdang/curfew/internal/retry"
	"github.com/tdang/curfew/internal/shutdown"
	"github.com/tdang/curfew/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a run would stop",
	Long: `Discover tagged instances and show whether each would be stopped
or skipped, without issuing any stop calls.

Examples:
  curfew plan
  curfew plan --tag-key Schedule --tag-value nightly`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := logging.New(logLevel(cfg), uuid.NewString())

	client, err := awsx.NewClient(ctx,
		awsx.WithProfile(cfg.Profile),
		awsx.WithRegion(cfg.Region),
	)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	if cfg.SSMPrefix != "" {
		if err := cfg.ApplySSMOverrides(ctx, client.SSM, logger); err != nil {
			return err
		}
	}

	retrier := retry.New(logger, cfg.MaxRetries, cfg.RetryDelay)

	var asgAPI awsx.AutoScalingAPI
	if cfg.SkipASGInstances {
		asgAPI = client.AutoScaling
	}

	discoverer := shutdown.NewDiscoverer(client.EC2, asgAPI, retrier, logger)
	instances, err := discoverer.Discover(ctx, cfg.TagKey, cfg.TagValue)
	if err != nil {
		return err
	}

	if len(instances) == 0 {
		fmt.Printf("No instances found with tag %s=%s\n", cfg.TagKey, cfg.TagValue)
		return nil
	}

	ui.PrintPlanTable(instances)
	return nil
}
