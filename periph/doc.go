// Package periph models byte oriented peripherals as discrete-time state
// machines with a non-blocking poll contract.
//
// Each model has a bounded transmit fifo in front of a shift register that
// needs TicksPerByte calls to AdvanceTime to move one byte onto the wire.
// Submission (TryAcceptByte), elapsed time (AdvanceTime) and completion
// (ObserveAndClearError, Idle) are separate calls, as with real hardware
// where a transmit fault is reported after the byte has left the fifo.
//
// Transmit faults are always deferred: a byte listed in TxFaults latches the
// sticky error when it finishes shifting, and the latch is reported to the
// next caller of ObserveAndClearError.
package periph
