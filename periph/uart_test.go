package periph

import (
	"errors"
	"maps"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/nbasync/nb"
)

func TestUart_Idle(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	assert.True(uart.Idle())
	assert.Equal(0, uart.Timer())
	assert.Equal(4, uart.Capacity())

	uart.AdvanceTime()
	assert.True(uart.Idle())
	assert.Equal(1, uart.Ticks)
	assert.NoError(uart.ObserveAndClearError())
}

func TestUart_Timing(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	assert.NoError(uart.TryAcceptByte(0x01))
	assert.Equal(3, uart.Timer())
	assert.False(uart.Idle())

	uart.AdvanceTime()
	uart.AdvanceTime()
	assert.False(uart.Idle())
	assert.Empty(uart.Transmitted())

	uart.AdvanceTime()
	assert.True(uart.Idle())
	assert.Equal(0, uart.Timer())
	assert.Equal([]byte{0x01}, uart.Transmitted())
}

func TestUart_QueuePosition(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	for _, b := range []byte{0x0a, 0x0b, 0x0c} {
		assert.NoError(uart.TryAcceptByte(b))
	}

	// Byte k leaves the fifo after TicksPerByte * (k + 1) ticks.
	for tick := 1; tick <= 9; tick++ {
		uart.AdvanceTime()
		assert.Equal(tick/3, len(uart.Transmitted()), "tick %v", tick)
	}
	assert.Equal([]byte{0x0a, 0x0b, 0x0c}, uart.Transmitted())
}

func TestUart_Backpressure(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	for n := range 4 {
		assert.NoError(uart.TryAcceptByte(byte(n)))
	}

	err := uart.TryAcceptByte(0x99)
	assert.True(nb.IsWouldBlock(err))
	assert.Equal(4, uart.Used())
	assert.Equal([]byte{0, 1, 2, 3}, uart.tx.Bytes())

	// Refused bytes do not advance time.
	assert.Equal(0, uart.Ticks)
	assert.Equal(3, uart.Timer())
}

func TestUart_DeferredFault(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	assert.NoError(uart.TryAcceptByte(0x01))
	assert.NoError(uart.TryAcceptByte(0xff))
	assert.NoError(uart.TryAcceptByte(0x02))

	// Accepting a faulty byte is never an error by itself.
	for range 5 {
		uart.AdvanceTime()
		assert.NoError(uart.ObserveAndClearError())
	}

	uart.AdvanceTime()
	err := uart.ObserveAndClearError()
	assert.True(errors.Is(err, ErrInvalidData))

	var fault *ErrFault
	assert.True(errors.As(err, &fault))
	assert.Equal(byte(0xff), fault.Value)
	assert.Equal("uart", fault.Device)

	// Observation clears the latch exactly once.
	assert.NoError(uart.ObserveAndClearError())
	assert.Equal([]byte{0x01}, uart.Transmitted())
	assert.Equal(1, uart.Used())
}

func TestUart_FaultNotLostWhenIdle(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	assert.NoError(uart.TryAcceptByte(0xff))
	for range 10 {
		uart.AdvanceTime()
	}

	assert.True(uart.Idle())
	assert.ErrorIs(uart.ObserveAndClearError(), ErrInvalidData)
	assert.NoError(uart.ObserveAndClearError())
}

func TestUart_FaultsCollapse(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	assert.NoError(uart.TryAcceptByte(0xff))
	assert.NoError(uart.TryAcceptByte(0xfe))
	assert.NoError(uart.TryAcceptByte(0xff))
	for range 9 {
		uart.AdvanceTime()
	}
	assert.True(uart.Idle())

	// Only the first fault is reported; the second is counted.
	err := uart.ObserveAndClearError()
	var fault *ErrFault
	if assert.True(errors.As(err, &fault)) {
		assert.Equal(byte(0xff), fault.Value)
	}
	assert.NoError(uart.ObserveAndClearError())
	assert.Equal(1, uart.LostFaults)
	assert.Equal([]byte{0xfe}, uart.Transmitted())

	// Once observed, the next fault latches again.
	assert.NoError(uart.TryAcceptByte(0xff))
	for range 3 {
		uart.AdvanceTime()
	}
	assert.ErrorIs(uart.ObserveAndClearError(), ErrInvalidData)
	assert.Equal(1, uart.LostFaults)

	uart.Reset()
	assert.Equal(0, uart.LostFaults)
}

func TestUart_Invariants(t *testing.T) {
	assert := assert.New(t)

	rands := rand.New(rand.NewSource(1))
	uart := NewUart(UartConfig)

	for range 2000 {
		if rands.Intn(2) == 0 {
			_ = uart.TryAcceptByte(byte(rands.Intn(0xff)))
		} else {
			uart.AdvanceTime()
		}
		assert.GreaterOrEqual(uart.Used(), 0)
		assert.LessOrEqual(uart.Used(), uart.Capacity())
		assert.Equal(!uart.Idle(), uart.Timer() > 0)
	}
}

func TestUart_Loopback(t *testing.T) {
	assert := assert.New(t)

	config := UartConfig
	config.Loopback = true
	uart := NewUart(config)

	_, err := uart.TryReadByte()
	assert.True(nb.IsWouldBlock(err))

	assert.NoError(uart.TryAcceptByte('A'))
	assert.NoError(uart.TryAcceptByte('B'))
	for range 6 {
		uart.AdvanceTime()
	}
	assert.Equal(2, uart.Buffered())

	value, err := uart.TryReadByte()
	assert.NoError(err)
	assert.Equal(byte('A'), value)
	value, err = uart.TryReadByte()
	assert.NoError(err)
	assert.Equal(byte('B'), value)

	_, err = uart.TryReadByte()
	assert.True(nb.IsWouldBlock(err))
}

func TestUart_ReceiveOverflow(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	for n := range 6 {
		uart.Receive(byte(0x30 + n))
	}

	_, err := uart.TryReadByte()
	assert.ErrorIs(err, ErrRxOverflow)

	for n := range 4 {
		value, err := uart.TryReadByte()
		assert.NoError(err)
		assert.Equal(byte(0x30+n), value)
	}

	_, err = uart.TryReadByte()
	assert.True(nb.IsWouldBlock(err))
}

func TestUart_SingleRegister(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(SingleRegisterConfig)
	assert.NoError(uart.TryAcceptByte(0x55))
	assert.True(nb.IsWouldBlock(uart.TryAcceptByte(0x56)))

	for range 4 {
		uart.AdvanceTime()
	}
	assert.False(uart.Idle())

	uart.AdvanceTime()
	assert.True(uart.Idle())
	assert.NoError(uart.TryAcceptByte(0x56))
}

func TestUart_Reset(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	uart.TryAcceptByte(0xff)
	for range 3 {
		uart.AdvanceTime()
	}
	uart.Receive(0x12)

	uart.Reset()
	assert.True(uart.Idle())
	assert.Equal(0, uart.Ticks)
	assert.Equal(0, uart.Buffered())
	assert.NoError(uart.ObserveAndClearError())
	assert.Equal(UartConfig.TxFaults, uart.TxFaults)
}

func TestUart_Defines(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(UartConfig)
	defines := maps.Collect(uart.Defines())
	assert.Equal("4", defines["DEPTH"])
	assert.Equal("3", defines["TICKS_PER_BYTE"])
}

func TestUart_ConfigClamp(t *testing.T) {
	assert := assert.New(t)

	uart := NewUart(Config{Name: "uart"})
	assert.Equal(1, uart.Capacity())
	assert.Equal(1, uart.TicksPerByte)
}
