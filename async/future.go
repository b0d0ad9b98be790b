package async

// Future is a resumable unit producing a T.
type Future[T any] interface {
	// Poll advances the unit. On Pending, value and err are zero.
	Poll(cx *Context) (poll Poll, value T, err error)
	// Cancel abandons the unit, releasing what it holds.
	Cancel()
}

// done is a unit that is ready on its first poll.
type done[T any] struct {
	value  T
	err    error
	polled bool
}

// Done returns a unit that completes with value on first poll.
func Done[T any](value T) Future[T] {
	return &done[T]{value: value}
}

// Fail returns a unit that completes with err on first poll.
func Fail[T any](err error) Future[T] {
	return &done[T]{err: err}
}

func (d *done[T]) Poll(cx *Context) (poll Poll, value T, err error) {
	poll = Ready
	if d.polled {
		err = ErrPolledAfterDone
		return
	}
	d.polled = true

	value, err = d.value, d.err
	return
}

func (d *done[T]) Cancel() {
	d.polled = true
}

// sequence runs lazily created units one after the other.
type sequence struct {
	steps   []func() Future[struct{}]
	current Future[struct{}]
	over    bool
}

// Sequence returns a unit that runs each step to completion in order,
// stopping at the first error. A step's unit is only created once the
// previous one has completed, so steps may share an exclusively owned
// peripheral. Each poll of the sequence polls exactly one step; when a step
// completes with more to follow, the sequence wakes itself and yields.
func Sequence(steps ...func() Future[struct{}]) Future[struct{}] {
	return &sequence{steps: steps}
}

func (seq *sequence) Poll(cx *Context) (poll Poll, value struct{}, err error) {
	if seq.over {
		poll = Ready
		err = ErrPolledAfterDone
		return
	}

	if seq.current == nil {
		if len(seq.steps) == 0 {
			seq.over = true
			poll = Ready
			return
		}
		seq.current = seq.steps[0]()
		seq.steps = seq.steps[1:]
	}

	poll, _, err = seq.current.Poll(cx)
	if poll == Pending {
		return
	}

	seq.current = nil
	if err != nil || len(seq.steps) == 0 {
		seq.over = true
		return
	}

	poll = Pending
	cx.Wake()
	return
}

func (seq *sequence) Cancel() {
	if seq.current != nil {
		seq.current.Cancel()
		seq.current = nil
	}
	seq.steps = nil
	seq.over = true
}

// Map transforms the value of a completed unit.
func Map[T, U any](fut Future[T], fn func(T) U) Future[U] {
	return &mapped[T, U]{fut: fut, fn: fn}
}

type mapped[T, U any] struct {
	fut Future[T]
	fn  func(T) U
}

func (m *mapped[T, U]) Poll(cx *Context) (poll Poll, value U, err error) {
	poll, inner, err := m.fut.Poll(cx)
	if poll == Ready && err == nil {
		value = m.fn(inner)
	}
	return
}

func (m *mapped[T, U]) Cancel() {
	m.fut.Cancel()
}
