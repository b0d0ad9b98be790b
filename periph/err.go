package periph

import (
	"errors"

	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

var (
	// ErrInvalidData reports a byte flagged by the peripheral, either while
	// transmitting or on receipt.
	ErrInvalidData = errors.New(f("invalid data"))
	// ErrRxOverflow reports received data lost to a full receive fifo.
	ErrRxOverflow = errors.New(f("receive fifo overflow"))
)

// ErrFault is a byte level fault latched by a peripheral.
type ErrFault struct {
	Device string
	Value  byte
	Err    error
}

func (err *ErrFault) Error() string {
	return f("%v: byte 0x%02x: %v", err.Device, err.Value, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
