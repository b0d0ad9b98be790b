package periph

// Fifo is a bounded first-in first-out byte queue, modeling the hardware
// buffer in front of a shift register.
type Fifo struct {
	Capacity int // Capacity in bytes.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []byte
}

// NewFifo creates an empty fifo holding up to capacity bytes.
func NewFifo(capacity int) (fifo *Fifo) {
	fifo = &Fifo{Capacity: capacity}
	fifo.Reset()

	return
}

// Reset empties the fifo, reallocating storage for the current capacity.
func (fifo *Fifo) Reset() {
	fifo.ReadIndex = 0
	fifo.WriteIndex = 0
	fifo.Size = 0
	fifo.Data = make([]byte, fifo.Capacity)
}

// Used returns the number of queued bytes.
func (fifo *Fifo) Used() int {
	return fifo.Size
}

// Free returns the number of bytes that can still be queued.
func (fifo *Fifo) Free() int {
	return fifo.Capacity - fifo.Size
}

func (fifo *Fifo) Empty() bool {
	return fifo.Size == 0
}

func (fifo *Fifo) Full() bool {
	return fifo.Size >= fifo.Capacity
}

// Put queues a byte at the tail. It returns false, leaving the queued bytes
// untouched, if the fifo is full.
func (fifo *Fifo) Put(value byte) (ok bool) {
	if fifo.Full() {
		return
	}

	fifo.Data[fifo.WriteIndex] = value

	fifo.WriteIndex++
	if fifo.WriteIndex == fifo.Capacity {
		fifo.WriteIndex = 0
	}
	fifo.Size++

	ok = true
	return
}

// Peek returns the head byte without removing it.
func (fifo *Fifo) Peek() (value byte, ok bool) {
	if fifo.Empty() {
		return
	}

	return fifo.Data[fifo.ReadIndex], true
}

// Get removes and returns the head byte.
func (fifo *Fifo) Get() (value byte, ok bool) {
	value, ok = fifo.Peek()
	if !ok {
		return
	}

	fifo.Data[fifo.ReadIndex] = 0
	fifo.ReadIndex++
	if fifo.ReadIndex == fifo.Capacity {
		fifo.ReadIndex = 0
	}
	fifo.Size--

	return
}

// Bytes returns a copy of the queued bytes, head first.
func (fifo *Fifo) Bytes() (data []byte) {
	data = make([]byte, 0, fifo.Size)
	for n := range fifo.Size {
		data = append(data, fifo.Data[(fifo.ReadIndex+n)%fifo.Capacity])
	}

	return
}
