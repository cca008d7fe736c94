package shutdown

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	autoscalingtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tdang/curfew/internal/retry"
)

// fakeEC2 serves both DescribeInstances shapes the shutdown core uses: the
// filtered list walk (paginated via NextToken) and the by-id lookup the
// stopper performs before each stop.
type fakeEC2 struct {
	pages    []*ec2.DescribeInstancesOutput
	listErrs map[int][]error // queued errors per page index, popped per call

	describeOut  map[string]*ec2.DescribeInstancesOutput
	describeErrs map[string][]error

	stopErrs map[string]error
	stopped  []string
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if len(in.InstanceIds) > 0 {
		id := in.InstanceIds[0]
		if errs := f.describeErrs[id]; len(errs) > 0 {
			err := errs[0]
			f.describeErrs[id] = errs[1:]
			return nil, err
		}
		out, ok := f.describeOut[id]
		if !ok {
			return &ec2.DescribeInstancesOutput{}, nil
		}
		return out, nil
	}

	page := 0
	if token := aws.ToString(in.NextToken); token != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(token, "page-"))
		if err != nil {
			return nil, fmt.Errorf("bad token %q", token)
		}
		page = n
	}

	if errs := f.listErrs[page]; len(errs) > 0 {
		err := errs[0]
		f.listErrs[page] = errs[1:]
		return nil, err
	}
	if page >= len(f.pages) {
		return nil, fmt.Errorf("no page %d", page)
	}
	return f.pages[page], nil
}

func (f *fakeEC2) StopInstances(_ context.Context, in *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	id := in.InstanceIds[0]
	if err, ok := f.stopErrs[id]; ok {
		return nil, err
	}
	f.stopped = append(f.stopped, id)
	return &ec2.StopInstancesOutput{}, nil
}

type fakeAutoScaling struct {
	enrolled map[string]string // instance id -> group name
	err      error
	gotIDs   [][]string
}

func (f *fakeAutoScaling) DescribeAutoScalingInstances(_ context.Context, in *autoscaling.DescribeAutoScalingInstancesInput, _ ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingInstancesOutput, error) {
	f.gotIDs = append(f.gotIDs, in.InstanceIds)
	if f.err != nil {
		return nil, f.err
	}

	out := &autoscaling.DescribeAutoScalingInstancesOutput{}
	for _, id := range in.InstanceIds {
		if group, ok := f.enrolled[id]; ok {
			out.AutoScalingInstances = append(out.AutoScalingInstances, autoscalingtypes.AutoScalingInstanceDetails{
				InstanceId:           aws.String(id),
				AutoScalingGroupName: aws.String(group),
			})
		}
	}
	return out, nil
}

func ec2Instance(id, name string, state ec2types.InstanceStateName) ec2types.Instance {
	inst := ec2types.Instance{
		InstanceId:   aws.String(id),
		InstanceType: ec2types.InstanceTypeT3Micro,
		State:        &ec2types.InstanceState{Name: state},
	}
	if name != "" {
		inst.Tags = []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String(name)}}
	}
	return inst
}

func listPage(token string, instances ...ec2types.Instance) *ec2.DescribeInstancesOutput {
	out := &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: instances}},
	}
	if token != "" {
		out.NextToken = aws.String(token)
	}
	return out
}

func describeResult(inst ec2types.Instance) *ec2.DescribeInstancesOutput {
	return &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: []ec2types.Instance{inst}}},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRetrier(maxRetries int) *retry.Retrier {
	return retry.New(testLogger(), maxRetries, time.Millisecond)
}
