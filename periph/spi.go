package periph

// Spi is a full duplex shift register: every byte shifted out clocks exactly
// one byte in. The far end is modeled as an inverting loopback.
type Spi struct {
	core
}

var _ Device = (*Spi)(nil)

// NewSpi creates an idle SPI controller.
func NewSpi(config Config) (spi *Spi) {
	spi = &Spi{}
	spi.reset(config)

	return
}

// Reset returns the controller to idle.
func (spi *Spi) Reset() {
	spi.reset(spi.Config)
}

// AdvanceTime shifts at most one byte out, and the inverted byte in.
func (spi *Spi) AdvanceTime() {
	value, ok := spi.shift()
	if !ok {
		return
	}

	// The clock runs regardless of a transmit fault.
	spi.latch(value)
	spi.deliver(^value)
}
