// Package shutdown implements the curfew batch: discovery of tagged
// instances, the per-instance stop state machine, and aggregation of the
// outcomes into a summary response.
package shutdown

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	awsx "github.com/tdang/curfew/internal/aws"
	"github.com/tdang/curfew/internal/retry"
	"github.com/tdang/curfew/pkg/types"
)

// Discoverer lists the instances carrying the shutdown tag.
type Discoverer struct {
	ec2     awsx.EC2API
	asg     awsx.AutoScalingAPI
	retrier *retry.Retrier
	logger  *slog.Logger
}

// NewDiscoverer creates a Discoverer. asg may be nil; when set, instances
// enrolled in an Auto Scaling group are excluded from the result (stopping
// them only makes the group launch replacements).
func NewDiscoverer(ec2Client awsx.EC2API, asg awsx.AutoScalingAPI, retrier *retry.Retrier, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		ec2:     ec2Client,
		asg:     asg,
		retrier: retrier,
		logger:  logger,
	}
}

// Discover returns every instance whose tag:<key> equals value, in page
// order then within-page order. All pages are walked eagerly; a failure on
// any page fails the whole discovery.
func (d *Discoverer) Discover(ctx context.Context, tagKey, tagValue string) ([]types.Instance, error) {
	d.logger.Info("discovering instances",
		"tag_key", tagKey,
		"tag_value", tagValue)

	paginator := ec2.NewDescribeInstancesPaginator(d.ec2, &ec2.DescribeInstancesInput{
		Filters: awsx.TagFilter(tagKey, tagValue),
	})

	var instances []types.Instance
	page := 0
	for paginator.HasMorePages() {
		page++
		out, err := retry.Do(ctx, d.retrier, "DescribeInstances",
			func(ctx context.Context) (*ec2.DescribeInstancesOutput, error) {
				return paginator.NextPage(ctx)
			})
		if err != nil {
			return nil, fmt.Errorf("failed to list instances (page %d): %w", page, err)
		}

		for _, inst := range awsx.CollectInstances(out) {
			d.logger.Info("found instance",
				"instance_id", inst.ID,
				"state", string(inst.State))
			instances = append(instances, inst)
		}
	}

	if d.asg != nil && len(instances) > 0 {
		filtered, err := d.excludeASGManaged(ctx, instances)
		if err != nil {
			return nil, err
		}
		instances = filtered
	}

	d.logger.Info("discovery complete", "count", len(instances))
	return instances, nil
}

func (d *Discoverer) excludeASGManaged(ctx context.Context, instances []types.Instance) ([]types.Instance, error) {
	ids := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
	}

	enrolled, err := awsx.ASGEnrolled(ctx, d.asg, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check auto scaling enrollment: %w", err)
	}

	kept := instances[:0]
	for _, inst := range instances {
		if group, ok := enrolled[inst.ID]; ok {
			d.logger.Info("excluding instance managed by auto scaling group",
				"instance_id", inst.ID,
				"asg", group)
			continue
		}
		kept = append(kept, inst)
	}
	return kept, nil
}
