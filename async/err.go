package async

import (
	"errors"

	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

var (
	// ErrPolledAfterDone is returned by a unit polled after it completed or
	// was cancelled.
	ErrPolledAfterDone = errors.New(f("polled after completion"))
	// ErrCancelled is returned by a unit polled after Cancel.
	ErrCancelled = errors.New(f("cancelled"))
)
