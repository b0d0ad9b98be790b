package config

import (
	"errors"

	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

var (
	ErrDepth        = errors.New(f("depth out of range"))
	ErrTicksPerByte = errors.New(f("ticks_per_byte must be positive"))
	ErrMaxPolls     = errors.New(f("max_polls must not be negative"))
)

// ErrField locates a configuration error.
type ErrField struct {
	Field string
	Err   error
}

func (err *ErrField) Error() string {
	return f("%v: %v", err.Field, err.Err)
}

func (err *ErrField) Unwrap() error {
	return err.Err
}
