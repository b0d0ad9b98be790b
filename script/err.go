package script

import (
	"errors"

	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

var (
	ErrNoReceive = errors.New(f("port has no receive path"))
	ErrByteRange = errors.New(f("byte out of range"))
	ErrNotBytes  = errors.New(f("want bytes, string or list of ints"))
)

// ErrScenario wraps a failure of a scenario script.
type ErrScenario struct {
	Script string
	Err    error
}

func (err *ErrScenario) Error() string {
	return f("%v: %v", err.Script, err.Err)
}

func (err *ErrScenario) Unwrap() error {
	return err.Err
}
