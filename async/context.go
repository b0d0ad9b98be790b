package async

// Waker asks the scheduler to poll a unit again. Wake may be called any
// number of times; the scheduler must deliver at least one poll afterwards.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to a Waker.
type WakerFunc func()

func (wf WakerFunc) Wake() {
	wf()
}

// Context is handed to every Poll call.
type Context struct {
	waker Waker
}

// NewContext creates a context for the waker.
func NewContext(waker Waker) *Context {
	return &Context{waker: waker}
}

// Waker returns the waker of the polling task.
func (cx *Context) Waker() Waker {
	return cx.waker
}

// Wake requests an immediate re-poll of the current unit.
func (cx *Context) Wake() {
	if cx == nil || cx.waker == nil {
		return
	}
	cx.waker.Wake()
}
