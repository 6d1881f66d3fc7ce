package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soundforge/flacpress/internal/convert"
	"github.com/soundforge/flacpress/internal/model"
)

// Structural misuse of Run. Per-task conversion failures never surface
// here; they are recorded on the tasks themselves.
var (
	// ErrEmptyBatch means Run was called with no tasks.
	ErrEmptyBatch = errors.New("batch: no tasks to run")

	// ErrInvalidConcurrency means Run was called with a non-positive limit.
	ErrInvalidConcurrency = errors.New("batch: concurrency limit must be positive")
)

// Callbacks deliver progress to the caller during a run. Every field is
// optional. The scheduler serializes invocations, so no two callbacks run
// concurrently; they receive snapshots and must not block for long.
type Callbacks struct {
	// OnTaskProgress receives per-task progress in [0, 100]. Values for a
	// given task never decrease.
	OnTaskProgress func(index, percent int)

	// OnTaskDone fires exactly once per dispatched task when it reaches a
	// terminal state, completed or failed alike.
	OnTaskDone func(index int, result TaskResult)

	// OnBatchProgress fires once after each window finishes, with the
	// number of terminal tasks so far and the batch total. Counts are
	// strictly increasing across a run.
	OnBatchProgress func(done, total int)
}

// Scheduler drives batches through a conversion operation in windows of
// bounded concurrency: the first limit tasks run in parallel, and the next
// window starts only after every task of the current one is terminal. A
// failed task never aborts its window or the run.
type Scheduler struct {
	op  convert.Operation
	log *slog.Logger

	cbMutex sync.Mutex // serializes all callback invocations
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithLogger routes scheduler diagnostics to l. By default they are
// discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// NewScheduler creates a scheduler that converts with op.
func NewScheduler(op convert.Operation, opts ...Option) *Scheduler {
	s := &Scheduler{
		op:  op,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run converts every task in b with at most limit conversions in flight.
//
// Tasks are dispatched in submission order, limit at a time; a window must
// fully drain before the next one starts. Individual failures are recorded
// on their tasks and do not stop the run. When ctx is cancelled, Run stops
// dispatching further windows and returns the context error alongside a
// partial result in which undispatched tasks are still pending. Structural
// misuse (no tasks, non-positive limit) fails before any task runs.
func (s *Scheduler) Run(ctx context.Context, b *Batch, limit int, cb Callbacks) (*Result, error) {
	if b == nil || b.Size() == 0 {
		return nil, ErrEmptyBatch
	}
	if limit <= 0 {
		return nil, ErrInvalidConcurrency
	}

	total := b.Size()
	start := time.Now()

	s.log.Debug("batch started",
		slog.Int("tasks", total),
		slog.Int("limit", limit),
		slog.String("format", b.Profile.Format))

	agg := NewAggregator(total)
	done := 0
	for offset := 0; offset < total; offset += limit {
		if err := ctx.Err(); err != nil {
			s.log.Warn("batch cancelled",
				slog.Int("done", done),
				slog.Int("total", total))
			return s.collect(b, start), err
		}

		end := offset + limit
		if end > total {
			end = total
		}
		s.runWindow(ctx, b.Tasks[offset:end], cb)

		done = end
		s.notifyBatchProgress(cb, done, total)
		s.log.Debug("window finished",
			slog.Int("done", done),
			slog.Int("total", total),
			slog.Int("percent", agg.Overall(done)))
	}

	result := s.collect(b, start)
	s.log.Info("batch finished",
		slog.Int("completed", result.Completed),
		slog.Int("failed", result.Failed),
		slog.Duration("elapsed", result.Elapsed))
	return result, nil
}

// runWindow converts one window of tasks in parallel and blocks until all
// of them are terminal.
func (s *Scheduler) runWindow(ctx context.Context, window []*model.ConversionTask, cb Callbacks) {
	g := new(errgroup.Group)
	for _, task := range window {
		task := task
		g.Go(func() error {
			s.runTask(ctx, task, cb)
			return nil
		})
	}
	// Conversion errors live on the tasks, never on the group.
	_ = g.Wait()
}

// runTask owns one task from dispatch to its terminal state.
func (s *Scheduler) runTask(ctx context.Context, task *model.ConversionTask, cb Callbacks) {
	task.Start(time.Now())
	s.log.Debug("task started",
		slog.Int("index", task.Index),
		slog.String("id", task.ID),
		slog.String("file", task.File.Name))

	out, err := s.op.Convert(ctx, task.File, task.Profile, func(percent int) {
		task.SetPercent(percent)
		s.notifyTaskProgress(cb, task.Index, task.Percent)
	})

	if err != nil {
		task.Fail(err, time.Now())
		s.log.Warn("task failed",
			slog.Int("index", task.Index),
			slog.String("file", task.File.Name),
			slog.String("kind", string(convert.KindOf(err))),
			slog.String("error", err.Error()))
	} else {
		task.Complete(out, time.Now())
		s.log.Debug("task completed",
			slog.Int("index", task.Index),
			slog.String("file", task.File.Name),
			slog.String("output", out.Name))
	}

	s.notifyTaskDone(cb, task.Index, newTaskResult(task))
}

// collect snapshots every task into a result, in submission order.
func (s *Scheduler) collect(b *Batch, start time.Time) *Result {
	result := &Result{
		Tasks:   make([]TaskResult, b.Size()),
		Elapsed: time.Since(start),
	}
	for i, task := range b.Tasks {
		result.Tasks[i] = newTaskResult(task)
		switch task.Status {
		case model.TaskStatusCompleted:
			result.Completed++
		case model.TaskStatusFailed:
			result.Failed++
		default:
			result.Pending++
		}
	}
	return result
}

// notifyTaskProgress calls the task progress callback if set.
func (s *Scheduler) notifyTaskProgress(cb Callbacks, index, percent int) {
	if cb.OnTaskProgress == nil {
		return
	}
	s.cbMutex.Lock()
	defer s.cbMutex.Unlock()
	cb.OnTaskProgress(index, percent)
}

// notifyTaskDone calls the task completion callback if set.
func (s *Scheduler) notifyTaskDone(cb Callbacks, index int, result TaskResult) {
	if cb.OnTaskDone == nil {
		return
	}
	s.cbMutex.Lock()
	defer s.cbMutex.Unlock()
	cb.OnTaskDone(index, result)
}

// notifyBatchProgress calls the batch progress callback if set.
func (s *Scheduler) notifyBatchProgress(cb Callbacks, done, total int) {
	if cb.OnBatchProgress == nil {
		return
	}
	s.cbMutex.Lock()
	defer s.cbMutex.Unlock()
	cb.OnBatchProgress(done, total)
}
