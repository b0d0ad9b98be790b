package driver

import (
	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/hal"
)

// Loopback checks an inverting loopback on a full duplex link.
type Loopback struct {
	Link hal.Transferer
	Size int // Bytes per check. Defaults to 32.
}

// Check transfers the bytes 1..Size and verifies that each came back
// inverted.
func (lb *Loopback) Check() async.Future[struct{}] {
	size := lb.Size
	if size <= 0 {
		size = 32
	}

	buf := make([]byte, size)
	for n := range buf {
		buf[n] = byte(n + 1)
	}

	return &loopbackCheck{
		transfer: lb.Link.AsyncTransfer(buf),
		buf:      buf,
	}
}

type loopbackCheck struct {
	transfer async.Future[struct{}]
	buf      []byte
}

func (lc *loopbackCheck) Poll(cx *async.Context) (poll async.Poll, value struct{}, err error) {
	poll, _, err = lc.transfer.Poll(cx)
	if poll == async.Pending || err != nil {
		return
	}

	for n, got := range lc.buf {
		want := ^byte(n + 1)
		if got != want {
			err = &ErrMismatch{Index: n, Want: want, Got: got}
			return
		}
	}

	return
}

func (lc *loopbackCheck) Cancel() {
	lc.transfer.Cancel()
}
