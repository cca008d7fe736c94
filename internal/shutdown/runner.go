package shutdown

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tdang/curfew/pkg/types"
)

// MetricsPublisher publishes batch counters. Implementations must swallow
// their own failures; the response never depends on metrics delivery.
type MetricsPublisher interface {
	Publish(ctx context.Context, summary types.Summary)
}

// Runner drives one curfew invocation: discover, stop each instance in
// discovery order, aggregate, publish metrics.
type Runner struct {
	discoverer *Discoverer
	stopper    *Stopper
	metrics    MetricsPublisher
	logger     *slog.Logger
}

// NewRunner creates a Runner. metrics may be nil to disable publishing.
func NewRunner(discoverer *Discoverer, stopper *Stopper, metrics MetricsPublisher, logger *slog.Logger) *Runner {
	return &Runner{
		discoverer: discoverer,
		stopper:    stopper,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run executes the batch and always returns a well-formed response: 500
// when discovery fails, 200/207 otherwise. Per-instance failures are
// contained; one bad instance never aborts the rest.
func (r *Runner) Run(ctx context.Context, tagKey, tagValue string) types.Response {
	r.logger.Info("starting auto-shutdown",
		"tag_key", tagKey,
		"tag_value", tagValue)

	instances, err := r.discoverer.Discover(ctx, tagKey, tagValue)
	if err != nil {
		msg := fmt.Sprintf("Failed to discover instances: %v", err)
		r.logger.Error(msg)
		return ErrorResponse(msg)
	}

	if len(instances) == 0 {
		r.logger.Info("no instances found with shutdown tag")
		return types.Response{
			StatusCode: 200,
			Body: types.ResponseBody{
				Errors:  []types.ErrorEntry{},
				Summary: "No instances found with shutdown tag",
			},
		}
	}

	outcomes := make([]types.ShutdownOutcome, 0, len(instances))
	for _, inst := range instances {
		r.logger.Info("processing instance",
			"instance_id", inst.ID,
			"current_state", string(inst.State))
		outcomes = append(outcomes, r.stopOne(ctx, inst))
	}

	summary := Aggregate(outcomes)

	if r.metrics != nil {
		r.metrics.Publish(ctx, summary)
	}

	r.logger.Info("auto-shutdown complete",
		"processed", summary.Processed,
		"stopped", summary.Stopped,
		"skipped", summary.Skipped,
		"errors", len(summary.Errors))

	return types.Response{
		StatusCode: Status(summary),
		Body: types.ResponseBody{
			Processed: summary.Processed,
			Stopped:   summary.Stopped,
			Skipped:   summary.Skipped,
			Errors:    summary.Errors,
			Summary:   summary.Line(),
		},
	}
}

// stopOne is the isolation boundary around a single instance. The stopper
// already recovers internally; this second layer guarantees the batch gets
// exactly one outcome per instance even if something leaks, substituting a
// synthetic failure carrying the state discovery observed.
func (r *Runner) stopOne(ctx context.Context, inst types.Instance) (outcome types.ShutdownOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("Unexpected error processing instance %s: %v", inst.ID, rec)
			r.logger.Error(msg, "instance_id", inst.ID)
			outcome = types.ShutdownOutcome{
				InstanceID:    inst.ID,
				Error:         msg,
				PreviousState: inst.State,
			}
		}
	}()

	return r.stopper.StopInstance(ctx, inst.ID)
}

// ErrorResponse is the envelope for failures that prevented the batch from
// running at all (initialization or discovery).
func ErrorResponse(msg string) types.Response {
	return types.Response{
		StatusCode: 500,
		Body: types.ResponseBody{
			Errors:  []types.ErrorEntry{{Error: msg}},
			Summary: "Auto-shutdown failed with unexpected error",
		},
	}
}
