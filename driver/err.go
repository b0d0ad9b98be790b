package driver

import (
	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

// ErrMismatch reports a loopback byte that did not come back as expected.
type ErrMismatch struct {
	Index int
	Want  byte
	Got   byte
}

func (err *ErrMismatch) Error() string {
	return f("loopback byte %v: want 0x%02x, got 0x%02x", err.Index, err.Want, err.Got)
}
