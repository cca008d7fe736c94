package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
)

// DescribeAutoScalingInstances accepts at most 50 ids per call.
const asgLookupBatch = 50

// AutoScalingAPI is the slice of the Auto Scaling client used by the
// discovery guard.
type AutoScalingAPI interface {
	DescribeAutoScalingInstances(ctx context.Context, params *autoscaling.DescribeAutoScalingInstancesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingInstancesOutput, error)
}

// ASGEnrolled returns the subset of ids that are currently registered in an
// Auto Scaling group, mapped to the group name. Stopping such an instance is
// pointless: the group replaces it.
func ASGEnrolled(ctx context.Context, client AutoScalingAPI, ids []string) (map[string]string, error) {
	enrolled := make(map[string]string)

	for start := 0; start < len(ids); start += asgLookupBatch {
		end := start + asgLookupBatch
		if end > len(ids) {
			end = len(ids)
		}

		out, err := client.DescribeAutoScalingInstances(ctx, &autoscaling.DescribeAutoScalingInstancesInput{
			InstanceIds: ids[start:end],
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe auto scaling instances: %w", err)
		}

		for _, inst := range out.AutoScalingInstances {
			enrolled[deref(inst.InstanceId)] = deref(inst.AutoScalingGroupName)
		}
	}

	return enrolled, nil
}
