package batch

// Package batch implements the core conversion pipeline: it partitions a
// submitted batch into fixed-size concurrency windows, drives each window
// through the conversion operation in parallel, isolates per-task failures,
// and propagates task and batch progress to the caller through serialized
// callbacks.
