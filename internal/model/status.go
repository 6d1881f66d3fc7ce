package model

// TaskStatus represents the status of a conversion task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not yet dispatched
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusConverting means the conversion is in progress
	TaskStatusConverting TaskStatus = "Converting"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusFailed means the task failed with an error
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is currently converting
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusConverting
}

// IsTerminal returns true if the task reached a final state (completed or failed)
func (ts TaskStatus) IsTerminal() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusFailed
}
