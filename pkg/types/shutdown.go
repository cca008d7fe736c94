package types

import "fmt"

// ShutdownOutcome is the result of attempting to stop one instance.
// PreviousState is the state observed immediately before the stop decision;
// it is empty when the instance could not be found or the attempt failed.
type ShutdownOutcome struct {
	InstanceID    string        `json:"instance_id"`
	Succeeded     bool          `json:"succeeded"`
	Error         string        `json:"error,omitempty"`
	PreviousState InstanceState `json:"previous_state,omitempty"`
}

// Skipped reports whether the outcome was a successful no-op because the
// instance was already stopping or stopped.
func (o ShutdownOutcome) Skipped() bool {
	return o.Succeeded && o.PreviousState.IsStopAdjacent()
}

// ErrorEntry is one per-instance failure in the response error list.
type ErrorEntry struct {
	InstanceID string `json:"instance_id"`
	Error      string `json:"error"`
}

// Summary aggregates a batch of shutdown outcomes.
// Processed == Stopped + Skipped + len(Errors) always holds.
type Summary struct {
	Processed int          `json:"processedInstances"`
	Stopped   int          `json:"stoppedInstances"`
	Skipped   int          `json:"skippedInstances"`
	Errors    []ErrorEntry `json:"errors"`
}

// Line renders the one-line human-readable recap of the batch.
func (s Summary) Line() string {
	return fmt.Sprintf("Processed %d instances, stopped %d, skipped %d, errors: %d",
		s.Processed, s.Stopped, s.Skipped, len(s.Errors))
}

// ResponseBody is the body of the invocation response envelope.
type ResponseBody struct {
	Processed int          `json:"processedInstances"`
	Stopped   int          `json:"stoppedInstances"`
	Skipped   int          `json:"skippedInstances"`
	Errors    []ErrorEntry `json:"errors"`
	Summary   string       `json:"summary"`
}

// Response is the structured result of one curfew invocation.
// StatusCode is 200 when the batch completed cleanly, 207 when at least one
// instance failed, and 500 when discovery or initialization failed outright.
type Response struct {
	StatusCode int          `json:"statusCode"`
	Body       ResponseBody `json:"body"`
}
