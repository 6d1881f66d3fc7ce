package batch

import "context"

// Runner defines the interface for the batch scheduler.
type Runner interface {
	Run(ctx context.Context, b *Batch, limit int, cb Callbacks) (*Result, error)
}
