package periph

// Uart is a fifo buffered serial transmitter with an optional loopback
// receiver. A depth of one models a single holding register.
type Uart struct {
	core
}

var _ Device = (*Uart)(nil)

// NewUart creates an idle UART.
func NewUart(config Config) (uart *Uart) {
	uart = &Uart{}
	uart.reset(config)

	return
}

// Reset returns the UART to idle, dropping queued data and latched errors.
func (uart *Uart) Reset() {
	uart.reset(uart.Config)
}

// AdvanceTime shifts at most one byte out of the transmit fifo.
func (uart *Uart) AdvanceTime() {
	value, ok := uart.shift()
	if !ok {
		return
	}

	if uart.latch(value) {
		return
	}

	if uart.Loopback {
		uart.deliver(value)
	}
}

// Receive is called when a byte arrives on the line. With a full receive
// fifo the byte is lost and the overflow is latched.
func (uart *Uart) Receive(value byte) {
	uart.deliver(value)
}
