package periph

import (
	"iter"
	"log"
	"maps"
	"slices"
	"strconv"

	"github.com/ezrec/nbasync/nb"
)

// Ticker advances simulated time by one unit.
type Ticker interface {
	// AdvanceTime moves the simulated clock forward one tick.
	AdvanceTime()
}

// Transmitter is the write half of a peripheral.
type Transmitter interface {
	Ticker
	// TryAcceptByte queues a byte for transmission, or returns nb.ErrWouldBlock.
	TryAcceptByte(value byte) error
	// ObserveAndClearError returns and clears the sticky transmit error.
	ObserveAndClearError() error
	// Idle is true when nothing is left to transmit.
	Idle() bool
}

// Receiver is the read half of a peripheral.
type Receiver interface {
	Ticker
	// TryReadByte dequeues a received byte, or returns nb.ErrWouldBlock.
	TryReadByte() (value byte, err error)
}

// Device is a peripheral with both halves.
type Device interface {
	Transmitter
	Receiver
	// Capacity is the depth of each fifo.
	Capacity() int
}

// Config describes the timing and fault behaviour of a peripheral model.
type Config struct {
	Name         string  `yaml:"name"`
	Depth        int     `yaml:"depth"`          // Fifo depth, in bytes.
	TicksPerByte int     `yaml:"ticks_per_byte"` // Shift latency.
	TxFaults     []uint8 `yaml:"tx_faults"`      // Bytes that fault when shifted out.
	RxFaults     []uint8 `yaml:"rx_faults"`      // Bytes that fault when read.
	Loopback     bool    `yaml:"loopback"`       // Feed transmitted bytes back to the receiver.
	Verbose      bool    `yaml:"verbose"`        // If set, logs every transition.
}

// Presets, after the prototypes they were modeled on.
var (
	UartConfig = Config{
		Name:         "uart",
		Depth:        4,
		TicksPerByte: 3,
		TxFaults:     []uint8{0xff},
	}

	SingleRegisterConfig = Config{
		Name:         "uart",
		Depth:        1,
		TicksPerByte: 5,
		TxFaults:     []uint8{0xff},
	}

	SpiConfig = Config{
		Name:         "spi",
		Depth:        4,
		TicksPerByte: 3,
		RxFaults:     []uint8{0x42},
	}
)

// core is the state shared by all models: a transmit fifo feeding a shift
// register, and a receive fifo.
type core struct {
	Config

	Ticks      int // Ticks since reset.
	LostFaults int // Transmit faults latched while an earlier one was unobserved.

	tx    *Fifo
	rx    *Fifo
	timer int // Ticks left until the tx head is shifted out. Zero iff tx is empty.

	txFault    error
	rxOverflow bool
	wire       []byte
}

func (c *core) reset(config Config) {
	c.Config = config
	if c.Depth < 1 {
		c.Depth = 1
	}
	if c.TicksPerByte < 1 {
		c.TicksPerByte = 1
	}

	c.Ticks = 0
	c.LostFaults = 0
	c.tx = NewFifo(c.Depth)
	c.rx = NewFifo(c.Depth)
	c.timer = 0
	c.txFault = nil
	c.rxOverflow = false
	c.wire = nil
}

// Capacity returns the depth of each fifo.
func (c *core) Capacity() int {
	return c.Depth
}

// Idle is true once the transmit fifo has drained.
func (c *core) Idle() bool {
	return c.tx.Empty()
}

// Used returns the transmit fifo occupancy.
func (c *core) Used() int {
	return c.tx.Used()
}

// Buffered returns the receive fifo occupancy.
func (c *core) Buffered() int {
	return c.rx.Used()
}

// Timer returns the ticks left until the head byte is shifted out.
func (c *core) Timer() int {
	return c.timer
}

// Transmitted returns the bytes that made it onto the wire, in order.
func (c *core) Transmitted() []byte {
	return slices.Clone(c.wire)
}

// Defines returns an iter of defines for the peripheral.
func (c *core) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"DEPTH":          strconv.Itoa(c.Depth),
		"TICKS_PER_BYTE": strconv.Itoa(c.TicksPerByte),
	})
}

// TryAcceptByte queues value for transmission. It does not advance time.
func (c *core) TryAcceptByte(value byte) (err error) {
	if !c.tx.Put(value) {
		if c.Verbose {
			log.Printf("%v: accept(%02x) - would block", c.Name, value)
		}
		err = nb.ErrWouldBlock
		return
	}

	if c.tx.Used() == 1 {
		c.timer = c.TicksPerByte
	}

	if c.Verbose {
		log.Printf("%v: accept(%02x) - ok", c.Name, value)
	}

	return
}

// ObserveAndClearError returns the latched transmit fault, if any, and
// clears the latch.
func (c *core) ObserveAndClearError() (err error) {
	err, c.txFault = c.txFault, nil
	return
}

// shift advances the shift register by one tick, returning the byte that
// finished shifting out, if any.
func (c *core) shift() (value byte, ok bool) {
	c.Ticks++

	if c.tx.Empty() {
		return
	}

	c.timer--
	if c.timer > 0 {
		return
	}

	value, ok = c.tx.Get()
	if !c.tx.Empty() {
		c.timer = c.TicksPerByte
	}

	return
}

// latch records a transmit fault for value, if it is a faulting byte.
func (c *core) latch(value byte) (faulted bool) {
	if !slices.Contains(c.TxFaults, value) {
		c.wire = append(c.wire, value)
		if c.Verbose {
			log.Printf("%v: shifted %02x", c.Name, value)
		}
		return
	}

	faulted = true

	// The first unobserved fault is kept; later ones are only counted.
	if c.txFault != nil {
		c.LostFaults++
		if c.Verbose {
			log.Printf("%v: shifted %02x - fault (%v unobserved)", c.Name, value, c.LostFaults+1)
		}
		return
	}

	if c.Verbose {
		log.Printf("%v: shifted %02x - fault", c.Name, value)
	}

	c.txFault = &ErrFault{Device: c.Name, Value: value, Err: ErrInvalidData}
	return
}

// deliver pushes a received byte, latching an overflow if there is no room.
func (c *core) deliver(value byte) {
	if c.rx.Put(value) {
		return
	}

	if c.Verbose {
		log.Printf("%v: received %02x - overflow", c.Name, value)
	}

	c.rxOverflow = true
}

// TryReadByte dequeues a received byte. A latched overflow is reported, and
// cleared, before any data.
func (c *core) TryReadByte() (value byte, err error) {
	if c.rxOverflow {
		c.rxOverflow = false
		err = ErrRxOverflow
		return
	}

	value, ok := c.rx.Get()
	if !ok {
		err = nb.ErrWouldBlock
		return
	}

	if slices.Contains(c.RxFaults, value) {
		if c.Verbose {
			log.Printf("%v: read() - invalid %02x", c.Name, value)
		}
		err = &ErrFault{Device: c.Name, Value: value, Err: ErrInvalidData}
		return
	}

	if c.Verbose {
		log.Printf("%v: read() - ok %02x", c.Name, value)
	}

	return
}
