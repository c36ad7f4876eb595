package job

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilJobFunc is returned when a Job has no function to run.
var ErrNilJobFunc = errors.New("nil JobFunc")

// Job is a single asynchronous write against one index.
type Job struct {
	Op    string
	Index string
	fn    func(context.Context) error
}

// New wraps fn as a Job for the shard executor. op and index only label errors.
func New(op, index string, fn func(context.Context) error) *Job {
	return &Job{Op: op, Index: index, fn: fn}
}

// Run executes the job. Errors keep their chain so the executor can still
// classify them.
func (j *Job) Run(ctx context.Context) error {
	if j == nil || j.fn == nil {
		return fmt.Errorf("jobfunc: %w", ErrNilJobFunc)
	}
	if err := j.fn(ctx); err != nil {
		return fmt.Errorf("%s %s: %w", j.Op, j.Index, err)
	}
	return nil
}
