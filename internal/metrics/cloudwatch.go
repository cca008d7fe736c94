// Package metrics publishes batch counters to CloudWatch. Publishing is
// best-effort: failures are logged and swallowed, never surfaced to the
// invocation result.
package metrics

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/tdang/curfew/pkg/types"
)

const namespace = "Curfew"

// CloudWatchAPI is the slice of the CloudWatch client the publisher uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Publisher sends batch counters to CloudWatch.
type Publisher struct {
	client CloudWatchAPI
	logger *slog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(client CloudWatchAPI, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Publish emits the four batch counters under the Curfew namespace.
func (p *Publisher) Publish(ctx context.Context, summary types.Summary) {
	dimensions := []cwtypes.Dimension{
		{
			Name:  aws.String("Tool"),
			Value: aws.String("curfew"),
		},
	}

	counters := []struct {
		name  string
		value int
	}{
		{"InstancesProcessed", summary.Processed},
		{"InstancesStopped", summary.Stopped},
		{"InstancesSkipped", summary.Skipped},
		{"ErrorCount", len(summary.Errors)},
	}

	data := make([]cwtypes.MetricDatum, 0, len(counters))
	for _, c := range counters {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String(c.name),
			Value:      aws.Float64(float64(c.value)),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: dimensions,
		})
	}

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: data,
	})
	if err != nil {
		p.logger.Error("failed to publish metrics", "error", err.Error())
		return
	}

	p.logger.Info("metrics published", "count", len(data))
}
