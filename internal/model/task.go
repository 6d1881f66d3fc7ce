package model

import "time"

// ConversionTask represents a single file conversion job. A task is created
// in the pending state when its file passes validation and is driven by
// exactly one scheduler goroutine until it reaches a terminal state, so its
// fields need no locking. Terminal states absorb all further transitions.
type ConversionTask struct {
	Index int    // position in the batch, equals submission order
	ID    string // unique task id within the batch

	File    InputFile // the file being converted
	Profile Profile   // target parameters

	Status  TaskStatus
	Percent int // 0 to 100, never decreases while the task is live

	Output *Output // set on completion, nil otherwise
	Err    error   // set on failure, nil otherwise

	StartedAt  time.Time // when conversion started
	FinishedAt time.Time // when the task reached a terminal state
}

// NewConversionTask creates a pending task for file at the given batch index.
func NewConversionTask(index int, id string, file InputFile, profile Profile) *ConversionTask {
	return &ConversionTask{
		Index:   index,
		ID:      id,
		File:    file,
		Profile: profile,
		Status:  TaskStatusPending,
	}
}

// Start transitions the task from pending to converting. Any other starting
// state leaves the task unchanged.
func (t *ConversionTask) Start(now time.Time) {
	if t.Status != TaskStatusPending {
		return
	}
	t.Status = TaskStatusConverting
	t.StartedAt = now
}

// SetPercent records conversion progress. Values are clamped to [0, 100],
// regressions are dropped, and updates after a terminal state are ignored.
func (t *ConversionTask) SetPercent(percent int) {
	if t.Status.IsTerminal() {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent < t.Percent {
		return
	}
	t.Percent = percent
}

// Complete transitions the task to completed and attaches the output
// descriptor. It is a no-op once the task is terminal.
func (t *ConversionTask) Complete(out Output, now time.Time) {
	if t.Status.IsTerminal() {
		return
	}
	t.Status = TaskStatusCompleted
	t.Percent = 100
	t.Output = &out
	t.FinishedAt = now
}

// Fail transitions the task to failed and attaches the error. It is a no-op
// once the task is terminal.
func (t *ConversionTask) Fail(err error, now time.Time) {
	if t.Status.IsTerminal() {
		return
	}
	t.Status = TaskStatusFailed
	t.Err = err
	t.FinishedAt = now
}
