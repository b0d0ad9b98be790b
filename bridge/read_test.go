package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/periph"
)

func TestPort_ReadLoopback(t *testing.T) {
	assert := assert.New(t)

	config := periph.UartConfig
	config.Loopback = true
	port, _ := newUartPort(config)

	_, _, err := drive(port.AsyncWrite([]byte("hi!")))
	assert.NoError(err)

	buf := make([]byte, 3)
	_, polls, err := drive(port.AsyncRead(buf))
	assert.NoError(err)
	assert.Equal("hi!", string(buf))
	assert.Equal(3, polls)
}

func TestPort_ReadWaitsForData(t *testing.T) {
	assert := assert.New(t)

	config := periph.UartConfig
	config.Loopback = true
	port, uart := newUartPort(config)

	assert.NoError(uart.TryAcceptByte('x'))

	value, polls, err := drive(port.AsyncReadByte())
	assert.NoError(err)
	assert.Equal(byte('x'), value)
	assert.Equal(3, polls)
}

func TestPort_ReadByteOverflow(t *testing.T) {
	assert := assert.New(t)

	port, uart := newUartPort(periph.UartConfig)
	for n := range 5 {
		uart.Receive(byte(n))
	}

	_, polls, err := drive(port.AsyncReadByte())
	assert.ErrorIs(err, periph.ErrRxOverflow)
	assert.Equal(1, polls)

	buf := make([]byte, 4)
	_, _, err = drive(port.AsyncRead(buf))
	assert.NoError(err)
	assert.Equal([]byte{0, 1, 2, 3}, buf)
}

func TestPort_ReadPartial(t *testing.T) {
	assert := assert.New(t)

	config := periph.UartConfig
	config.RxFaults = []uint8{'!'}
	port, uart := newUartPort(config)
	for _, b := range []byte("ok!g") {
		uart.Receive(b)
	}

	buf := make([]byte, 5)
	fut := port.AsyncRead(buf)
	_, polls, err := drive(fut)
	assert.ErrorIs(err, periph.ErrInvalidData)
	assert.Equal(3, polls)
	assert.Equal(2, fut.(interface{ Read() int }).Read())
	assert.Equal("ok", string(buf[:2]))
	assert.False(port.Busy())
}

func TestPort_ReadEmpty(t *testing.T) {
	assert := assert.New(t)

	port, _ := newUartPort(periph.UartConfig)
	_, polls, err := drive(port.AsyncRead(nil))
	assert.NoError(err)
	assert.Equal(1, polls)
}

func TestPort_ReadCancel(t *testing.T) {
	assert := assert.New(t)

	port, _ := newUartPort(periph.UartConfig)
	fut := port.AsyncReadByte()
	poll, _, err := fut.Poll(nil)
	assert.Equal(async.Pending, poll)
	assert.NoError(err)

	fut.Cancel()
	assert.False(port.Busy())
}
