// Package async is the vocabulary of resumable units.
//
// A unit (Future) is advanced by a scheduler through repeated calls to Poll.
// A Pending result means the unit has made whatever progress it could and
// has arranged, through the Context's Waker, to be polled again. A Ready
// result carries the final value or error; the unit must not be polled again.
//
// Go has no destructors, so abandoning a unit is explicit: Cancel releases
// whatever the unit holds. Work already handed to hardware is not undone.
package async
