package shutdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdang/curfew/pkg/types"
)

func TestAggregateMixedBatch(t *testing.T) {
	outcomes := []types.ShutdownOutcome{
		{InstanceID: "i-aaa", Succeeded: true, PreviousState: types.StateRunning},
		{InstanceID: "i-bbb", Succeeded: true, PreviousState: types.StateStopped},
		{InstanceID: "i-ccc", Error: "Instance i-ccc not found"},
		{InstanceID: "i-ddd", Succeeded: true, PreviousState: types.StateStopping},
		{InstanceID: "i-eee", Error: "AWS API error stopping instance i-eee: UnauthorizedOperation - denied"},
	}

	summary := Aggregate(outcomes)

	assert.Equal(t, 5, summary.Processed)
	assert.Equal(t, 1, summary.Stopped)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, "i-ccc", summary.Errors[0].InstanceID)
	assert.Equal(t, "i-eee", summary.Errors[1].InstanceID, "errors keep processing order")
	assert.Equal(t, summary.Processed, summary.Stopped+summary.Skipped+len(summary.Errors))
	assert.Equal(t, "Processed 5 instances, stopped 1, skipped 2, errors: 2", summary.Line())
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)

	assert.Equal(t, 0, summary.Processed)
	assert.NotNil(t, summary.Errors, "errors marshal as an empty list, never null")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, 200, Status(types.Summary{Processed: 3, Stopped: 3, Errors: []types.ErrorEntry{}}))
	assert.Equal(t, 200, Status(types.Summary{}))
	assert.Equal(t, 207, Status(types.Summary{
		Processed: 2,
		Stopped:   1,
		Errors:    []types.ErrorEntry{{InstanceID: "i-aaa", Error: "boom"}},
	}))
	assert.Equal(t, 207, Status(types.Summary{
		Processed: 1,
		Errors:    []types.ErrorEntry{{InstanceID: "i-aaa", Error: "boom"}},
	}), "all failed is still a partial result, not a batch failure")
}
