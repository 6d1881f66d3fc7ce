package batch

import (
	"time"

	"github.com/soundforge/flacpress/internal/model"
)

// TaskResult is the immutable record of one task handed to callbacks and
// returned from Run. It is a snapshot by value, safe to retain after the
// run finishes.
type TaskResult struct {
	Index  int
	ID     string
	File   model.InputFile
	Status model.TaskStatus
	Output *model.Output // non-nil only when Status is Completed
	Err    error         // non-nil only when Status is Failed
}

// newTaskResult snapshots a task.
func newTaskResult(t *model.ConversionTask) TaskResult {
	return TaskResult{
		Index:  t.Index,
		ID:     t.ID,
		File:   t.File,
		Status: t.Status,
		Output: t.Output,
		Err:    t.Err,
	}
}

// Result reports the outcome of a batch run. Tasks holds one entry per
// submitted file in submission order, whatever order the conversions
// actually finished in.
type Result struct {
	Tasks     []TaskResult
	Completed int
	Failed    int
	Pending   int // non-zero only when the run was cancelled between windows
	Elapsed   time.Duration
}

// InputBytes sums the input sizes of completed tasks.
func (r *Result) InputBytes() int64 {
	var total int64
	for _, tr := range r.Tasks {
		if tr.Status == model.TaskStatusCompleted {
			total += tr.File.Size
		}
	}
	return total
}

// EstimatedOutputBytes sums the output size estimates of completed tasks.
func (r *Result) EstimatedOutputBytes() int64 {
	var total int64
	for _, tr := range r.Tasks {
		if tr.Output != nil {
			total += tr.Output.EstimatedSize
		}
	}
	return total
}
