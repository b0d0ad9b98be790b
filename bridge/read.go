package bridge

import (
	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/nb"
)

type readByteUnit struct {
	unit
}

// AsyncReadByte waits for the next received byte.
func (port *Port) AsyncReadByte() async.Future[byte] {
	if !port.acquire() {
		return async.Fail[byte](ErrBusy)
	}

	return &readByteUnit{unit: unit{port: port}}
}

func (rb *readByteUnit) Poll(cx *async.Context) (poll async.Poll, value byte, err error) {
	if poll, err = rb.enter(); poll == async.Ready {
		return
	}

	value, err = rb.port.Device.TryReadByte()
	if nb.IsWouldBlock(err) {
		value, err = 0, nil
		cx.Wake()
		return
	}

	if err != nil {
		rb.port.logf("read_byte() - %v", err)
		value = 0
	} else {
		rb.port.logf("read_byte() - %02x", value)
	}

	rb.finish()
	poll = async.Ready
	return
}

type readUnit struct {
	unit
	data   []byte
	cursor int
}

// AsyncRead fills data with received bytes, in order. A receive error ends
// the unit; bytes already stored in data stay there.
func (port *Port) AsyncRead(data []byte) async.Future[struct{}] {
	if !port.acquire() {
		return async.Fail[struct{}](ErrBusy)
	}

	return &readUnit{unit: unit{port: port}, data: data}
}

// Read returns the number of bytes stored so far.
func (rd *readUnit) Read() int {
	return rd.cursor
}

func (rd *readUnit) Poll(cx *async.Context) (poll async.Poll, value struct{}, err error) {
	if poll, err = rd.enter(); poll == async.Ready {
		return
	}

	if rd.cursor < len(rd.data) {
		var b byte
		b, err = rd.port.Device.TryReadByte()
		switch {
		case err == nil:
			rd.data[rd.cursor] = b
			rd.cursor++
		case nb.IsWouldBlock(err):
			err = nil
		default:
			rd.port.logf("read() - %v after %v bytes", err, rd.cursor)
			rd.finish()
			poll = async.Ready
			return
		}
	}

	if rd.cursor == len(rd.data) {
		rd.finish()
		poll = async.Ready
		return
	}

	cx.Wake()
	return
}
