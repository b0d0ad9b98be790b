// Package bridge adapts non-blocking peripheral models to resumable units.
//
// Every unit calls AdvanceTime exactly once per poll, so that suspensions and
// simulated time stay correlated, and wakes its context before every Pending
// return: progress here is driven by elapsed ticks, not by an interrupt, so
// the unit asks to be polled again straight away.
package bridge

import (
	"log"

	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/hal"
	"github.com/ezrec/nbasync/periph"
)

// Port is the single owner of a peripheral. At most one unit may hold a
// port at a time; a unit created while the port is held fails with ErrBusy
// on its first poll.
type Port struct {
	Name    string        // Name used in verbose logs.
	Verbose bool          // If set, logs every unit transition.
	Device  periph.Device // The peripheral driven by this port.
	Polls   int           // Total unit resumptions.

	leased bool
}

var _ hal.Full = (*Port)(nil)

// NewPort creates a port that owns device.
func NewPort(name string, device periph.Device) (port *Port) {
	port = &Port{
		Name:   name,
		Device: device,
	}

	return
}

// Busy is true while a unit holds the port.
func (port *Port) Busy() bool {
	return port.leased
}

func (port *Port) acquire() (ok bool) {
	if port.leased {
		if port.Verbose {
			log.Printf("%v: busy", port.Name)
		}
		return
	}

	port.leased = true
	ok = true
	return
}

func (port *Port) release() {
	port.leased = false
}

func (port *Port) logf(format string, args ...any) {
	if port.Verbose {
		log.Printf("%v: "+format, append([]any{port.Name}, args...)...)
	}
}

// unit is the lease and lifecycle shared by all units of a port.
type unit struct {
	port      *Port
	over      bool
	cancelled bool
}

// enter starts a resumption: it refuses finished units, and otherwise
// advances the peripheral by one tick.
func (u *unit) enter() (poll async.Poll, err error) {
	if u.over {
		poll = async.Ready
		err = async.ErrPolledAfterDone
		if u.cancelled {
			err = async.ErrCancelled
		}
		return
	}

	u.port.Polls++
	u.port.Device.AdvanceTime()

	return
}

// finish completes the unit and releases the port.
func (u *unit) finish() {
	if u.over {
		return
	}
	u.over = true
	u.port.release()
}

// Cancel abandons the unit. Bytes already accepted by the peripheral are not
// recalled.
func (u *unit) Cancel() {
	if u.over {
		return
	}
	u.cancelled = true
	u.finish()
}
