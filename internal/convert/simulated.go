package convert

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/soundforge/flacpress/internal/model"
)

// Simulated progress step bounds for the irregular mode.
const (
	simStepMin = 5
	simStepMax = 25

	// DefaultStepPercent is the increment size in deterministic mode.
	DefaultStepPercent = 20

	// DefaultStepDelay is the base pause between progress increments.
	DefaultStepDelay = 150 * time.Millisecond
)

// ErrSimulatedEncoder is the cause attached to injected failures.
var ErrSimulatedEncoder = errors.New("simulated encoder failure")

// SimulatedConfig tunes the simulated encoder.
type SimulatedConfig struct {
	// Deterministic switches from irregular random increments to fixed
	// StepPercent increments with fixed pauses.
	Deterministic bool

	// StepPercent is the increment size in deterministic mode.
	// Defaults to DefaultStepPercent.
	StepPercent int

	// StepDelay is the base pause between increments. Irregular mode
	// jitters it; zero disables pausing entirely.
	StepDelay time.Duration

	// Timeout is the per-file deadline. Defaults to DefaultTimeout.
	Timeout time.Duration

	// FailureRate is the probability in [0, 1] that a file fails partway
	// through with an encoding error. Zero disables failure injection.
	FailureRate float64

	// ShrinkFactor is the projected output/input size ratio.
	// Defaults to DefaultShrinkFactor.
	ShrinkFactor float64
}

// Simulated is an Operation that performs no real encoding: it advances
// progress on a timer and fabricates the output descriptor. It mirrors the
// pacing of a real encoder closely enough to exercise every scheduler path,
// including failures, timeouts, and cancellation.
type Simulated struct {
	cfg SimulatedConfig
}

// NewSimulated creates a simulated operation, filling unset config fields
// with defaults.
func NewSimulated(cfg SimulatedConfig) *Simulated {
	if cfg.StepPercent <= 0 {
		cfg.StepPercent = DefaultStepPercent
	}
	if cfg.StepPercent > 100 {
		cfg.StepPercent = 100
	}
	if cfg.StepDelay < 0 {
		cfg.StepDelay = 0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FailureRate < 0 {
		cfg.FailureRate = 0
	}
	if cfg.FailureRate > 1 {
		cfg.FailureRate = 1
	}
	if cfg.ShrinkFactor <= 0 {
		cfg.ShrinkFactor = DefaultShrinkFactor
	}
	return &Simulated{cfg: cfg}
}

// Convert advances simulated progress until it reaches 100, then returns
// the fabricated output descriptor.
func (s *Simulated) Convert(ctx context.Context, file model.InputFile, profile model.Profile, onProgress func(percent int)) (model.Output, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	failAt := -1
	if s.cfg.FailureRate > 0 && rand.Float64() < s.cfg.FailureRate {
		failAt = 10 + rand.Intn(85)
	}

	percent := 0
	for percent < 100 {
		percent += s.step()
		if percent > 100 {
			percent = 100
		}

		if err := s.pause(ctx, file); err != nil {
			return model.Output{}, err
		}

		if failAt >= 0 && percent >= failAt {
			return model.Output{}, &Error{Kind: KindEncoding, File: file.Name, Err: ErrSimulatedEncoder}
		}

		if onProgress != nil {
			onProgress(percent)
		}
	}

	return model.Output{
		Name:          OutputName(file.Name, profile.Format),
		EstimatedSize: EstimateOutputSize(file.Size, s.cfg.ShrinkFactor),
		Profile:       profile,
		CompletedAt:   time.Now(),
	}, nil
}

// step returns the next progress increment.
func (s *Simulated) step() int {
	if s.cfg.Deterministic {
		return s.cfg.StepPercent
	}
	return simStepMin + rand.Intn(simStepMax-simStepMin+1)
}

// pause waits out the inter-step delay, honoring cancellation and the
// per-file deadline.
func (s *Simulated) pause(ctx context.Context, file model.InputFile) error {
	delay := s.cfg.StepDelay
	if delay > 0 && !s.cfg.Deterministic {
		half := delay / 2
		delay = half + time.Duration(rand.Int63n(int64(half)+1))
	}

	if delay <= 0 {
		select {
		case <-ctx.Done():
			return s.ctxError(ctx, file)
		default:
			return nil
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return s.ctxError(ctx, file)
	case <-timer.C:
		return nil
	}
}

// ctxError maps a done context to a conversion error: the operation's own
// deadline becomes a timeout, an outside cancellation stays a cancellation.
func (s *Simulated) ctxError(ctx context.Context, file model.InputFile) error {
	kind := KindCancelled
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, File: file.Name, Err: ctx.Err()}
}
