package bridge

import (
	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/nb"
)

// transferUnit exchanges a slice in place with a full duplex peripheral.
type transferUnit struct {
	unit
	data     []byte
	sent     int // Bytes accepted for transmission.
	received int // Bytes read back into data. received <= sent.
}

// AsyncTransfer sends data and overwrites it with the bytes clocked in.
// No more than Capacity bytes are ever in flight, so the receive fifo can
// not overflow on account of this unit. The peripheral must produce one
// received byte per transmitted byte.
func (port *Port) AsyncTransfer(data []byte) async.Future[struct{}] {
	if !port.acquire() {
		return async.Fail[struct{}](ErrBusy)
	}

	return &transferUnit{unit: unit{port: port}, data: data}
}

func (tr *transferUnit) Poll(cx *async.Context) (poll async.Poll, value struct{}, err error) {
	if poll, err = tr.enter(); poll == async.Ready {
		return
	}

	dev := tr.port.Device
	fail := func() {
		tr.port.logf("transfer() - %v after %v bytes", err, tr.received)
		tr.finish()
		poll = async.Ready
	}

	if err = dev.ObserveAndClearError(); err != nil {
		fail()
		return
	}

	if tr.received < tr.sent {
		var b byte
		b, err = dev.TryReadByte()
		switch {
		case err == nil:
			tr.data[tr.received] = b
			tr.received++
		case nb.IsWouldBlock(err):
			err = nil
		default:
			fail()
			return
		}
	}

	if tr.sent < len(tr.data) && tr.sent-tr.received < dev.Capacity() {
		err = dev.TryAcceptByte(tr.data[tr.sent])
		switch {
		case err == nil:
			tr.sent++
		case nb.IsWouldBlock(err):
			err = nil
		default:
			fail()
			return
		}
	}

	if tr.received == len(tr.data) {
		tr.port.logf("transfer() - ok %v bytes", tr.received)
		tr.finish()
		poll = async.Ready
		return
	}

	cx.Wake()
	return
}
