package types

import "time"

// InstanceState is the EC2-reported lifecycle state of an instance.
type InstanceState string

const (
	StatePending      InstanceState = "pending"
	StateRunning      InstanceState = "running"
	StateShuttingDown InstanceState = "shutting-down"
	StateTerminated   InstanceState = "terminated"
	StateStopping     InstanceState = "stopping"
	StateStopped      InstanceState = "stopped"
)

// IsStopAdjacent reports whether a stop is already underway or complete,
// so issuing another stop would be redundant.
func (s InstanceState) IsStopAdjacent() bool {
	return s == StateStopped || s == StateStopping
}

// Instance represents a discovered EC2 instance.
type Instance struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	State      InstanceState     `json:"state"`
	Type       string            `json:"type"`
	AZ         string            `json:"az"`
	ASG        string            `json:"asg,omitempty"`
	Tags       map[string]string `json:"tags"`
	LaunchTime time.Time         `json:"launch_time"`
}

// GetTag returns a tag value by key.
func (i *Instance) GetTag(key string) string {
	if i.Tags == nil {
		return ""
	}
	return i.Tags[key]
}
