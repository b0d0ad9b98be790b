package bridge

import (
	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/nb"
)

// writeByteUnit completes once one byte is accepted by the transmit fifo.
type writeByteUnit struct {
	unit
	value byte
}

// AsyncWriteByte queues one byte for transmission.
func (port *Port) AsyncWriteByte(value byte) async.Future[struct{}] {
	if !port.acquire() {
		return async.Fail[struct{}](ErrBusy)
	}

	return &writeByteUnit{unit: unit{port: port}, value: value}
}

func (wb *writeByteUnit) Poll(cx *async.Context) (poll async.Poll, value struct{}, err error) {
	if poll, err = wb.enter(); poll == async.Ready {
		return
	}

	dev := wb.port.Device
	if err = dev.ObserveAndClearError(); err != nil {
		wb.port.logf("write_byte(%02x) - %v", wb.value, err)
		wb.finish()
		poll = async.Ready
		return
	}

	err = dev.TryAcceptByte(wb.value)
	switch {
	case err == nil:
		wb.port.logf("write_byte(%02x) - ok", wb.value)
	case nb.IsWouldBlock(err):
		wb.port.logf("write_byte(%02x) - would block", wb.value)
		err = nil
		cx.Wake()
		return
	default:
		wb.port.logf("write_byte(%02x) - %v", wb.value, err)
	}

	wb.finish()
	poll = async.Ready
	return
}

// flushUnit completes once the transmit fifo has drained.
type flushUnit struct {
	unit
}

// AsyncFlush waits for every queued byte to leave the peripheral. A transmit
// fault latched by any of them is reported here, once.
func (port *Port) AsyncFlush() async.Future[struct{}] {
	if !port.acquire() {
		return async.Fail[struct{}](ErrBusy)
	}

	return &flushUnit{unit: unit{port: port}}
}

func (fl *flushUnit) Poll(cx *async.Context) (poll async.Poll, value struct{}, err error) {
	if poll, err = fl.enter(); poll == async.Ready {
		return
	}

	poll, err = fl.flush(cx)
	return
}

// flush is one resumption of the flush phase, after time was advanced.
func (u *unit) flush(cx *async.Context) (poll async.Poll, err error) {
	dev := u.port.Device
	if err = dev.ObserveAndClearError(); err != nil {
		u.port.logf("flush() - %v", err)
		u.finish()
		poll = async.Ready
		return
	}

	if dev.Idle() {
		u.port.logf("flush() - ok")
		u.finish()
		poll = async.Ready
		return
	}

	u.port.logf("flush() - would block")
	cx.Wake()
	return
}

// writeUnit drains a slice into the transmit fifo, one byte per poll at
// most, then flushes.
type writeUnit struct {
	unit
	data   []byte
	cursor int // Bytes accepted so far. Never exceeds len(data).
}

// AsyncWrite transmits data and flushes. On failure the bytes accepted
// before the fault are not recalled.
func (port *Port) AsyncWrite(data []byte) async.Future[struct{}] {
	if !port.acquire() {
		return async.Fail[struct{}](ErrBusy)
	}

	return &writeUnit{unit: unit{port: port}, data: data}
}

// Written returns the number of bytes accepted by the peripheral so far.
func (wr *writeUnit) Written() int {
	return wr.cursor
}

func (wr *writeUnit) Poll(cx *async.Context) (poll async.Poll, value struct{}, err error) {
	if poll, err = wr.enter(); poll == async.Ready {
		return
	}

	if wr.cursor == len(wr.data) {
		poll, err = wr.flush(cx)
		return
	}

	dev := wr.port.Device
	if err = dev.ObserveAndClearError(); err != nil {
		wr.port.logf("write() - %v after %v bytes", err, wr.cursor)
		wr.finish()
		poll = async.Ready
		return
	}

	next := wr.data[wr.cursor]
	err = dev.TryAcceptByte(next)
	switch {
	case err == nil:
		wr.port.logf("write_byte(%02x) - ok", next)
		wr.cursor++
	case nb.IsWouldBlock(err):
		wr.port.logf("write_byte(%02x) - would block", next)
		err = nil
	default:
		wr.port.logf("write_byte(%02x) - %v", next, err)
		wr.finish()
		poll = async.Ready
		return
	}

	// Yield once per byte, even when the fifo has room.
	cx.Wake()
	return
}
