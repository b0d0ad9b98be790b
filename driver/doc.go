// Package driver composes device drivers on top of the hal capabilities.
//
// Drivers hold a single inner owner and create inner units lazily, one at a
// time, so the exclusive ownership of the underlying port is preserved.
package driver
