package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soundforge/flacpress/internal/model"
)

func TestNewSimulated_Defaults(t *testing.T) {
	op := NewSimulated(SimulatedConfig{})

	if op.cfg.StepPercent != DefaultStepPercent {
		t.Errorf("Expected StepPercent %d, got %d", DefaultStepPercent, op.cfg.StepPercent)
	}
	if op.cfg.Timeout != DefaultTimeout {
		t.Errorf("Expected Timeout %v, got %v", DefaultTimeout, op.cfg.Timeout)
	}
	if op.cfg.ShrinkFactor != DefaultShrinkFactor {
		t.Errorf("Expected ShrinkFactor %v, got %v", DefaultShrinkFactor, op.cfg.ShrinkFactor)
	}
	if op.cfg.FailureRate != 0 {
		t.Errorf("Expected FailureRate 0, got %v", op.cfg.FailureRate)
	}
}

func TestSimulated_Convert_Deterministic(t *testing.T) {
	op := NewSimulated(SimulatedConfig{Deterministic: true, StepPercent: 25, StepDelay: 0})
	file := model.InputFile{Name: "take.wav", Size: 1000, Type: "audio/wav"}

	var reports []int
	out, err := op.Convert(context.Background(), file, model.DefaultProfile(), func(p int) {
		reports = append(reports, p)
	})
	if err != nil {
		t.Fatalf("Convert() error = %v, expected nil", err)
	}

	expected := []int{25, 50, 75, 100}
	if len(reports) != len(expected) {
		t.Fatalf("Convert() reported %v, expected %v", reports, expected)
	}
	for i := range expected {
		if reports[i] != expected[i] {
			t.Errorf("report[%d] = %d, expected %d", i, reports[i], expected[i])
		}
	}

	if out.Name != "take.flac" {
		t.Errorf("Output.Name = %s, expected take.flac", out.Name)
	}
	if out.EstimatedSize != 550 {
		t.Errorf("Output.EstimatedSize = %d, expected 550", out.EstimatedSize)
	}
	if out.Profile != model.DefaultProfile() {
		t.Errorf("Output.Profile = %v, expected the default profile", out.Profile)
	}
	if out.CompletedAt.IsZero() {
		t.Error("Expected CompletedAt to be set")
	}
}

func TestSimulated_Convert_IrregularProgressIsMonotonic(t *testing.T) {
	op := NewSimulated(SimulatedConfig{StepDelay: 0})
	file := model.InputFile{Name: "take.wav", Size: 4096, Type: "audio/wav"}

	var reports []int
	_, err := op.Convert(context.Background(), file, model.DefaultProfile(), func(p int) {
		reports = append(reports, p)
	})
	if err != nil {
		t.Fatalf("Convert() error = %v, expected nil", err)
	}

	if len(reports) == 0 {
		t.Fatal("Expected at least one progress report before completion")
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] <= reports[i-1] {
			t.Fatalf("progress regressed at %d: %v", i, reports)
		}
	}
	if last := reports[len(reports)-1]; last != 100 {
		t.Errorf("final report = %d, expected 100", last)
	}
}

func TestSimulated_Convert_NilProgressCallback(t *testing.T) {
	op := NewSimulated(SimulatedConfig{Deterministic: true, StepDelay: 0})

	out, err := op.Convert(context.Background(), model.InputFile{Name: "a.wav", Size: 10}, model.DefaultProfile(), nil)
	if err != nil {
		t.Fatalf("Convert() with nil callback error = %v, expected nil", err)
	}
	if out.Name != "a.flac" {
		t.Errorf("Output.Name = %s, expected a.flac", out.Name)
	}
}

func TestSimulated_Convert_InjectedFailure(t *testing.T) {
	op := NewSimulated(SimulatedConfig{Deterministic: true, StepDelay: 0, FailureRate: 1})
	file := model.InputFile{Name: "take.wav", Size: 1000}

	out, err := op.Convert(context.Background(), file, model.DefaultProfile(), nil)
	if err == nil {
		t.Fatal("Expected an injected failure, got nil")
	}
	if KindOf(err) != KindEncoding {
		t.Errorf("KindOf(err) = %q, expected %q", KindOf(err), KindEncoding)
	}
	if !errors.Is(err, ErrSimulatedEncoder) {
		t.Errorf("Expected the simulated encoder cause, got %v", err)
	}
	if out.Name != "" {
		t.Errorf("Expected a zero output on failure, got %v", out)
	}
}

func TestSimulated_Convert_Timeout(t *testing.T) {
	op := NewSimulated(SimulatedConfig{Deterministic: true, StepDelay: 50 * time.Millisecond, Timeout: 5 * time.Millisecond})
	file := model.InputFile{Name: "take.wav", Size: 1000}

	_, err := op.Convert(context.Background(), file, model.DefaultProfile(), nil)
	if err == nil {
		t.Fatal("Expected a timeout, got nil")
	}
	if KindOf(err) != KindTimeout {
		t.Errorf("KindOf(err) = %q, expected %q", KindOf(err), KindTimeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded underneath, got %v", err)
	}
}

func TestSimulated_Convert_Cancelled(t *testing.T) {
	op := NewSimulated(SimulatedConfig{Deterministic: true, StepDelay: 0})
	file := model.InputFile{Name: "take.wav", Size: 1000}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := op.Convert(ctx, file, model.DefaultProfile(), nil)
	if err == nil {
		t.Fatal("Expected a cancellation error, got nil")
	}
	if KindOf(err) != KindCancelled {
		t.Errorf("KindOf(err) = %q, expected %q", KindOf(err), KindCancelled)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled underneath, got %v", err)
	}
}
