package batch

import "math"

// Aggregator maps terminal-task counts to an overall batch percentage. It
// recomputes from the counts on every call instead of accumulating state,
// so repeated or out-of-order queries cannot make it drift.
type Aggregator struct {
	total int
}

// NewAggregator creates an aggregator for a batch of total tasks.
func NewAggregator(total int) *Aggregator {
	if total < 0 {
		total = 0
	}
	return &Aggregator{total: total}
}

// Total returns the batch size the aggregator was built for.
func (a *Aggregator) Total() int {
	return a.total
}

// Overall returns the batch percentage for done terminal tasks, rounded to
// the nearest integer. done is clamped to [0, total]; an empty batch is
// always at zero.
func (a *Aggregator) Overall(done int) int {
	if a.total <= 0 {
		return 0
	}
	if done < 0 {
		done = 0
	}
	if done > a.total {
		done = a.total
	}
	return int(math.Round(float64(done) / float64(a.total) * 100))
}

// ClampPercent bounds a per-task progress value to [0, 100].
func ClampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
