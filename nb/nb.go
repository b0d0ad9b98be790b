// Package nb holds the non-blocking result convention shared by every
// peripheral operation.
//
// A non-blocking call either makes progress and returns its result (a value,
// nil, or a hardware error), or returns ErrWouldBlock without blocking and
// without side effects on the caller-visible state. ErrWouldBlock is never a
// failure; callers retry.
package nb

import (
	"errors"

	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

var (
	// ErrWouldBlock reports that the operation can not complete yet.
	ErrWouldBlock = errors.New(f("would block"))
)

// IsWouldBlock returns true if err is, or wraps, ErrWouldBlock.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock)
}

// Block retries op until it returns something other than ErrWouldBlock.
// Between attempts yield is called, if not nil; a peripheral model passes its
// AdvanceTime here so that retries correspond to elapsed time.
func Block[T any](op func() (T, error), yield func()) (value T, err error) {
	for {
		value, err = op()
		if !IsWouldBlock(err) {
			return
		}
		if yield != nil {
			yield()
		}
	}
}

// Do adapts a value-less non-blocking operation for Block.
func Do(op func() error) func() (struct{}, error) {
	return func() (struct{}, error) {
		return struct{}{}, op()
	}
}
