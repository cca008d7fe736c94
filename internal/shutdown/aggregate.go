package shutdown

import "github.com/tdang/curfew/pkg/types"

// Aggregate folds a batch of outcomes into summary counts and an ordered
// error list. Pure and deterministic: a successful outcome counts as
// skipped when the instance was already stopping or stopped, stopped
// otherwise; failures land in Errors in processing order.
func Aggregate(outcomes []types.ShutdownOutcome) types.Summary {
	summary := types.Summary{Errors: []types.ErrorEntry{}}

	for _, o := range outcomes {
		summary.Processed++
		switch {
		case o.Skipped():
			summary.Skipped++
		case o.Succeeded:
			summary.Stopped++
		default:
			summary.Errors = append(summary.Errors, types.ErrorEntry{
				InstanceID: o.InstanceID,
				Error:      o.Error,
			})
		}
	}

	return summary
}

// Status derives the response status for a completed batch: 200 when every
// instance succeeded, 207 when any failed. All-failed and some-failed both
// map to 207; 500 is reserved for failures that prevented the batch from
// running at all and is produced by the runner.
func Status(summary types.Summary) int {
	if len(summary.Errors) > 0 {
		return 207
	}
	return 200
}
