package driver

import (
	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/hal"
)

// Greeting is sent by Hello.
const Greeting = "Hello!\n"

// Hello is the smallest useful driver: it greets whoever is on the line.
type Hello struct {
	Writer hal.Writer
}

// SendHello writes the greeting and flushes.
func (h *Hello) SendHello() async.Future[struct{}] {
	return async.Sequence(
		func() async.Future[struct{}] { return h.Writer.AsyncWrite([]byte(Greeting)) },
		h.Writer.AsyncFlush,
	)
}
