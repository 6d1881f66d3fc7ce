package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundforge/flacpress/internal/model"
)

// TaskIDPrefix namespaces generated task ids.
const TaskIDPrefix = "task-"

// Batch is an ordered group of conversion tasks submitted together. Task
// indices are stable and equal to submission order, regardless of how the
// run later interleaves execution.
type Batch struct {
	Profile model.Profile
	Tasks   []*model.ConversionTask
}

// New builds a batch from admitted files. Every file becomes a pending task
// carrying its submission index and a fresh id.
func New(files []model.InputFile, profile model.Profile) *Batch {
	tasks := make([]*model.ConversionTask, len(files))
	for i, f := range files {
		tasks[i] = model.NewConversionTask(i, generateTaskID(), f, profile)
	}
	return &Batch{Profile: profile, Tasks: tasks}
}

// Size returns the number of tasks in the batch.
func (b *Batch) Size() int {
	return len(b.Tasks)
}

// generateTaskID generates a unique task ID using UUID v7 for better
// uniqueness and time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
