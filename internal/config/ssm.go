package config

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMAPI is the slice of the SSM client the override loader consumes.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ApplySSMOverrides replaces the tag selector with values from Parameter
// Store when the parameters exist. Missing parameters are not an error:
// the fleet may override only one of the two. The updated config is
// re-validated.
func (c *Config) ApplySSMOverrides(ctx context.Context, client SSMAPI, logger *slog.Logger) error {
	if c.SSMPrefix == "" {
		return nil
	}

	for _, p := range []struct {
		name   string
		target *string
	}{
		{"tag-key", &c.TagKey},
		{"tag-value", &c.TagValue},
	} {
		paramName := path.Join(c.SSMPrefix, p.name)
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name: aws.String(paramName),
		})
		if err != nil {
			logger.Info("no parameter store override", "parameter", paramName)
			continue
		}
		if out.Parameter != nil && out.Parameter.Value != nil {
			*p.target = *out.Parameter.Value
			logger.Info("applied parameter store override", "parameter", paramName)
		}
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config after parameter store overrides: %w", err)
	}
	return nil
}
