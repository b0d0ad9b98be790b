// Package hal defines the asynchronous I/O capabilities that drivers are
// written against, independent of any concrete peripheral.
//
// Every operation returns a per-call unit. The unit borrows the caller's
// slice and the implementation for its whole lifetime: starting another
// operation on the same implementation before the unit completes (or is
// cancelled) is a programming error.
package hal

import (
	"github.com/ezrec/nbasync/async"
)

// Writer is the write half of a byte stream.
type Writer interface {
	// AsyncWriteByte completes once the byte is accepted for transmission.
	AsyncWriteByte(value byte) async.Future[struct{}]
	// AsyncWrite completes once all of data has been transmitted, including
	// the final flush.
	AsyncWrite(data []byte) async.Future[struct{}]
	// AsyncFlush completes once nothing previously written is buffered.
	AsyncFlush() async.Future[struct{}]
}

// Reader is the read half of a byte stream.
type Reader interface {
	// AsyncReadByte completes with the next received byte.
	AsyncReadByte() async.Future[byte]
	// AsyncRead completes once data has been filled, in order.
	AsyncRead(data []byte) async.Future[struct{}]
}

// ReadWriter groups both halves.
type ReadWriter interface {
	Reader
	Writer
}

// Transferer exchanges bytes with a full duplex peripheral.
type Transferer interface {
	// AsyncTransfer sends data and replaces it, in place, with the bytes
	// clocked in.
	AsyncTransfer(data []byte) async.Future[struct{}]
}

// Full is a full duplex byte stream.
type Full interface {
	ReadWriter
	Transferer
}
