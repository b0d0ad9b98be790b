package driver

import (
	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/hal"
)

// Newline translates "\n" to "\r\n" on the way to the inner writer.
type Newline struct {
	Inner hal.Writer
}

var _ hal.Writer = (*Newline)(nil)

func (nl *Newline) writeByte(value byte) func() async.Future[struct{}] {
	return func() async.Future[struct{}] {
		return nl.Inner.AsyncWriteByte(value)
	}
}

// AsyncWriteByte writes value, preceded by a carriage return if value is a
// line feed.
func (nl *Newline) AsyncWriteByte(value byte) async.Future[struct{}] {
	if value == '\n' {
		return async.Sequence(nl.writeByte('\r'), nl.writeByte('\n'))
	}

	return nl.Inner.AsyncWriteByte(value)
}

// AsyncWrite translates and writes data, then flushes.
func (nl *Newline) AsyncWrite(data []byte) async.Future[struct{}] {
	steps := make([]func() async.Future[struct{}], 0, len(data)+1)
	for _, value := range data {
		steps = append(steps, func() async.Future[struct{}] {
			return nl.AsyncWriteByte(value)
		})
	}
	steps = append(steps, nl.Inner.AsyncFlush)

	return async.Sequence(steps...)
}

func (nl *Newline) AsyncFlush() async.Future[struct{}] {
	return nl.Inner.AsyncFlush()
}
