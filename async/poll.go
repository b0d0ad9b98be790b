package async

// Poll is the outcome of one resumption of a unit.
type Poll int

//go:generate go tool stringer -type=Poll
const (
	Pending = Poll(0) // Not complete; the unit has arranged to be woken.
	Ready   = Poll(1) // Complete, with a value or an error.
)
