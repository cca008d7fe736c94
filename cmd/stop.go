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
	"github.com/tdang/curfew/pkg/types"
)

var stopCmd = &cobra.Command{
	Use:   "stop [instance-id]",
	Short: "Stop one instance",
	Long: `Stop a single instance through the same checks as a batch run:
the current state is re-verified and an instance already stopping or
stopped is left alone.

With no argument, tagged instances are listed for interactive selection.

Examples:
  curfew stop i-0abc123def456
  curfew stop`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
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

	retrier := retry.New(logger, cfg.MaxRetries, cfg.RetryDelay)
	stopper := shutdown.NewStopper(client.EC2, retrier, logger)

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		discoverer := shutdown.NewDiscoverer(client.EC2, nil, retrier, logger)
		instances, err := discoverer.Discover(ctx, cfg.TagKey, cfg.TagValue)
		if err != nil {
			return err
		}
		if len(instances) == 0 {
			fmt.Printf("No instances found with tag %s=%s\n", cfg.TagKey, cfg.TagValue)
			return nil
		}

		selected, err := ui.SelectInstance(instances)
		if err != nil {
			return err
		}
		if selected == nil {
			return nil
		}
		id = selected.ID
	}

	outcome := stopper.StopInstance(ctx, id)
	ui.PrintOutcomeTable([]types.ShutdownOutcome{outcome})

	if !outcome.Succeeded {
		return fmt.Errorf("%s", outcome.Error)
	}
	return nil
}
