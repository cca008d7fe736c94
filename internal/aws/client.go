package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Throttling is handled inside the SDK: adaptive mode applies client-side
// rate limiting with backoff before an error ever surfaces to callers.
const maxSDKAttempts = 5

// Client wraps the AWS SDK clients used by curfew.
type Client struct {
	EC2         *ec2.Client
	CloudWatch  *cloudwatch.Client
	STS         *sts.Client
	AutoScaling *autoscaling.Client
	SSM         *ssm.Client

	profile string
	region  string
}

// ClientOption allows customizing the AWS Client.
type ClientOption func(*Client)

// WithProfile sets the AWS profile for the client.
func WithProfile(profile string) ClientOption {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithRegion sets the AWS region for the client.
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// NewClient creates a new AWS Client with the given options.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	configOpts := []func(*config.LoadOptions) error{
		config.WithRetryMode(aws.RetryModeAdaptive),
		config.WithRetryMaxAttempts(maxSDKAttempts),
	}

	if c.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(c.profile))
	}

	if c.region != "" {
		configOpts = append(configOpts, config.WithRegion(c.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	c.EC2 = ec2.NewFromConfig(cfg)
	c.CloudWatch = cloudwatch.NewFromConfig(cfg)
	c.STS = sts.NewFromConfig(cfg)
	c.AutoScaling = autoscaling.NewFromConfig(cfg)
	c.SSM = ssm.NewFromConfig(cfg)

	return c, nil
}

// Region returns the region the client was configured with, if any.
func (c *Client) Region() string {
	return c.region
}
