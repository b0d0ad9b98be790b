package bridge

import (
	"errors"

	"github.com/ezrec/nbasync/translate"
)

var f = translate.From

var (
	// ErrBusy is returned by a unit created while another unit still holds
	// the port.
	ErrBusy = errors.New(f("port busy"))
)
