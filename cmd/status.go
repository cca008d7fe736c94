package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	awsx "github.com/tdang/curfew/internal/aws"
	"github.com/tdang/curfew/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and authentication status",
	Long: `Display the effective configuration and verify AWS credentials,
for checking a host before scheduling curfew on it.

Examples:
  curfew status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Curfew Status")
	fmt.Println(ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Println()

	fmt.Printf("Tag:      %s=%s\n", ui.NameStyle.Render(cfg.TagKey), cfg.TagValue)
	if cfg.Profile != "" {
		fmt.Printf("Profile:  %s\n", cfg.Profile)
	}
	if cfg.Region != "" {
		fmt.Printf("Region:   %s\n", cfg.Region)
	}
	fmt.Printf("Retries:  %d × %s\n", cfg.MaxRetries, cfg.RetryDelay)
	if cfg.SkipASGInstances {
		fmt.Println("ASG:      enrolled instances excluded")
	}
	if cfg.SSMPrefix != "" {
		fmt.Printf("SSM:      overrides from %s\n", cfg.SSMPrefix)
	}
	fmt.Println()

	ctx := context.Background()
	client, err := awsx.NewClient(ctx,
		awsx.WithProfile(cfg.Profile),
		awsx.WithRegion(cfg.Region),
	)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	fmt.Print("Auth:     ")
	identity, err := client.GetCallerIdentity(ctx)
	if err != nil {
		fmt.Println(ui.StoppedStyle.Render("✗ Not authenticated"))
		fmt.Printf("          %s\n", ui.MutedStyle.Render(err.Error()))
		return nil
	}

	fmt.Println(ui.RunningStyle.Render("✓ Authenticated"))
	fmt.Printf("Account:  %s\n", identity.Account)
	fmt.Printf("User:     %s\n", identity.UserID)
	if identity.Arn != "" {
		fmt.Printf("ARN:      %s\n", ui.MutedStyle.Render(identity.Arn))
	}

	return nil
}
