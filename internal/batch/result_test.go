package batch

import (
	"testing"

	"github.com/soundforge/flacpress/internal/model"
)

func TestResult_ByteTotals(t *testing.T) {
	result := &Result{Tasks: []TaskResult{
		{
			File:   model.InputFile{Name: "a.wav", Size: 1000},
			Status: model.TaskStatusCompleted,
			Output: &model.Output{Name: "a.flac", EstimatedSize: 550},
		},
		{
			File:   model.InputFile{Name: "b.wav", Size: 2000},
			Status: model.TaskStatusFailed,
		},
		{
			File:   model.InputFile{Name: "c.wav", Size: 4000},
			Status: model.TaskStatusCompleted,
			Output: &model.Output{Name: "c.flac", EstimatedSize: 2200},
		},
	}}

	if got := result.InputBytes(); got != 5000 {
		t.Errorf("InputBytes() = %d, expected 5000", got)
	}
	if got := result.EstimatedOutputBytes(); got != 2750 {
		t.Errorf("EstimatedOutputBytes() = %d, expected 2750", got)
	}
}

func TestResult_EmptyTotals(t *testing.T) {
	result := &Result{}

	if got := result.InputBytes(); got != 0 {
		t.Errorf("InputBytes() = %d, expected 0", got)
	}
	if got := result.EstimatedOutputBytes(); got != 0 {
		t.Errorf("EstimatedOutputBytes() = %d, expected 0", got)
	}
}
