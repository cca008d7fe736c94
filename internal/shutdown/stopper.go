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

// Stopper stops a single instance, translating every possible failure into
// a ShutdownOutcome. Errors never escape StopInstance: the caller's batch
// must survive any single instance going wrong.
type Stopper struct {
	ec2     awsx.EC2API
	retrier *retry.Retrier
	logger  *slog.Logger
}

// NewStopper creates a Stopper.
func NewStopper(ec2Client awsx.EC2API, retrier *retry.Retrier, logger *slog.Logger) *Stopper {
	return &Stopper{
		ec2:     ec2Client,
		retrier: retrier,
		logger:  logger,
	}
}

// StopInstance re-verifies the instance's current state and issues a stop
// when it is not already stopping or stopped. The state is re-fetched
// rather than trusted from discovery: the record may be stale by the time
// the stop executes.
func (s *Stopper) StopInstance(ctx context.Context, id string) (outcome types.ShutdownOutcome) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Unexpected error stopping instance %s: %v", id, r)
			s.logger.Error(msg, "instance_id", id)
			outcome = types.ShutdownOutcome{InstanceID: id, Error: msg}
		}
	}()

	s.logger.Info("attempting to stop instance", "instance_id", id)

	describe, err := retry.Do(ctx, s.retrier, "DescribeInstances",
		func(ctx context.Context) (*ec2.DescribeInstancesOutput, error) {
			return s.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
				InstanceIds: []string{id},
			})
		})
	if err != nil {
		if awsx.Classify(err).IsInstanceNotFound() {
			return s.notFound(id)
		}
		return s.failure(id, err)
	}

	if len(describe.Reservations) == 0 || len(describe.Reservations[0].Instances) == 0 {
		return s.notFound(id)
	}

	inst := describe.Reservations[0].Instances[0]
	if inst.State == nil {
		return s.failure(id, fmt.Errorf("instance state missing from describe response"))
	}
	current := types.InstanceState(inst.State.Name)

	if current.IsStopAdjacent() {
		s.logger.Info("instance already stopping or stopped, skipping",
			"instance_id", id,
			"state", string(current))
		return types.ShutdownOutcome{
			InstanceID:    id,
			Succeeded:     true,
			PreviousState: current,
		}
	}

	_, err = retry.Do(ctx, s.retrier, "StopInstances",
		func(ctx context.Context) (*ec2.StopInstancesOutput, error) {
			return s.ec2.StopInstances(ctx, &ec2.StopInstancesInput{
				InstanceIds: []string{id},
			})
		})
	if err != nil {
		return s.failure(id, err)
	}

	s.logger.Info("stop initiated",
		"instance_id", id,
		"previous_state", string(current))
	return types.ShutdownOutcome{
		InstanceID:    id,
		Succeeded:     true,
		PreviousState: current,
	}
}

func (s *Stopper) notFound(id string) types.ShutdownOutcome {
	msg := fmt.Sprintf("Instance %s not found", id)
	s.logger.Error(msg, "instance_id", id)
	return types.ShutdownOutcome{InstanceID: id, Error: msg}
}

// failure classifies an error from the describe or stop call. Authorization
// failures are an expected operational condition (a protected instance) and
// log at warning level; everything else is a fault and logs at error level.
func (s *Stopper) failure(id string, err error) types.ShutdownOutcome {
	classified := awsx.Classify(err)

	if classified.Kind == awsx.KindClientAPI {
		msg := fmt.Sprintf("AWS API error stopping instance %s: %s - %s",
			id, classified.Code, classified.Message)
		if classified.IsAuthorization() {
			s.logger.Warn("permission denied stopping instance",
				"instance_id", id,
				"code", classified.Code,
				"error", classified.Message)
		} else {
			s.logger.Error(msg, "instance_id", id, "code", classified.Code)
		}
		return types.ShutdownOutcome{InstanceID: id, Error: msg}
	}

	msg := fmt.Sprintf("Unexpected error stopping instance %s: %v", id, err)
	s.logger.Error(msg, "instance_id", id)
	return types.ShutdownOutcome{InstanceID: id, Error: msg}
}
