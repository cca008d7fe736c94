package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tdang/curfew/pkg/types"
)

// EC2API is the slice of the EC2 client the shutdown core consumes.
// It matches ec2.DescribeInstancesAPIClient so the SDK paginator can drive
// it directly, and tests can substitute a fake.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

// TagFilter builds the server-side equality filter for tag:<key>=<value>.
func TagFilter(key, value string) []ec2types.Filter {
	return []ec2types.Filter{
		{
			Name:   aws.String("tag:" + key),
			Values: []string{value},
		},
	}
}

// CollectInstances flattens one DescribeInstances page into instance records,
// preserving reservation order then within-reservation order.
func CollectInstances(out *ec2.DescribeInstancesOutput) []types.Instance {
	var instances []types.Instance
	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			instances = append(instances, toInstance(inst))
		}
	}
	return instances
}

// toInstance converts an EC2 instance descriptor to our Instance type.
func toInstance(i ec2types.Instance) types.Instance {
	inst := types.Instance{
		ID:   deref(i.InstanceId),
		Type: string(i.InstanceType),
		Tags: make(map[string]string),
	}

	if i.State != nil {
		inst.State = types.InstanceState(i.State.Name)
	}

	if i.Placement != nil && i.Placement.AvailabilityZone != nil {
		inst.AZ = *i.Placement.AvailabilityZone
	}

	if i.LaunchTime != nil {
		inst.LaunchTime = *i.LaunchTime
	}

	// Duplicate keys are not expected in an EC2 tag set; last write wins
	// if one shows up anyway.
	for _, tag := range i.Tags {
		key := deref(tag.Key)
		value := deref(tag.Value)
		inst.Tags[key] = value

		switch key {
		case "Name":
			inst.Name = value
		case "aws:autoscaling:groupName":
			inst.ASG = value
		}
	}

	return inst
}

// deref safely dereferences a string pointer.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
