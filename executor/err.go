package executor

import (
	"errors"

	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

var (
	// ErrStalled reports a unit that returned Pending without arranging to
	// be woken.
	ErrStalled = errors.New(f("stalled: pending without wake"))
	// ErrPollLimit reports a unit that did not complete within MaxPolls.
	ErrPollLimit = errors.New(f("poll limit exceeded"))
)

// ErrTask identifies the task that ended a Run.
type ErrTask struct {
	Task string
	Err  error
}

func (err *ErrTask) Error() string {
	return f("task %v: %v", err.Task, err.Err)
}

func (err *ErrTask) Unwrap() error {
	return err.Err
}
