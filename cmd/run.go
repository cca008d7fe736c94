package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	awsx "github.com/tdang/curfew/internal/aws"
	"github.com/tdang/curfew/internal/logging"
	"github.com/tdang/curfew/internal/metrics"
	"github.com/tdang/curfew/internal/retry"
	"github.com/tdang/curfew/internal/shutdown"
	"github.com/tdang/curfew/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stop every tagged instance",
	Long: `Discover all instances carrying the shutdown tag and stop them,
one at a time, in discovery order. Instances already stopping or stopped
are skipped. A failure on one instance never aborts the rest.

The structured result is printed to stdout as JSON:

  {"statusCode": 200, "body": {"processedInstances": 2, ...}}

Status 207 means the batch completed with at least one per-instance
failure; 500 means discovery or setup failed before any instance was
processed. The exit code is 1 only for 500.

Examples:
  curfew run
  curfew run --tag-key Schedule --tag-value nightly
  CURFEW_SKIP_ASG_INSTANCES=true curfew run`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	correlationID := uuid.NewString()
	logger := logging.New(logLevel(cfg), correlationID)

	client, err := awsx.NewClient(ctx,
		awsx.WithProfile(cfg.Profile),
		awsx.WithRegion(cfg.Region),
	)
	if err != nil {
		msg := fmt.Sprintf("Failed to initialize EC2 client: %v", err)
		logger.Error(msg)
		return emitResponse(shutdown.ErrorResponse(msg))
	}

	if cfg.SSMPrefix != "" {
		if err := cfg.ApplySSMOverrides(ctx, client.SSM, logger); err != nil {
			msg := fmt.Sprintf("Failed to apply parameter store overrides: %v", err)
			logger.Error(msg)
			return emitResponse(shutdown.ErrorResponse(msg))
		}
	}

	retrier := retry.New(logger, cfg.MaxRetries, cfg.RetryDelay)

	var asgAPI awsx.AutoScalingAPI
	if cfg.SkipASGInstances {
		asgAPI = client.AutoScaling
	}

	var publisher shutdown.MetricsPublisher
	if !cfg.NoMetrics {
		publisher = metrics.NewPublisher(client.CloudWatch, logger)
	}

	runner := shutdown.NewRunner(
		shutdown.NewDiscoverer(client.EC2, asgAPI, retrier, logger),
		shutdown.NewStopper(client.EC2, retrier, logger),
		publisher,
		logger,
	)

	return emitResponse(runner.Run(ctx, cfg.TagKey, cfg.TagValue))
}

// emitResponse prints the envelope to stdout. Exit code 1 is reserved for
// invocations that never got to process instances.
func emitResponse(resp types.Response) error {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	fmt.Println(string(out))

	if resp.StatusCode == 500 {
		os.Exit(1)
	}
	return nil
}
