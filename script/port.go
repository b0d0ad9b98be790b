package script

import (
	"slices"

	"go.starlark.net/starlark"

	"github.com/ezrec/nbasync/async"
	"github.com/ezrec/nbasync/bridge"
	"github.com/ezrec/nbasync/driver"
	"github.com/ezrec/nbasync/executor"
)

// Port is the starlark value of an attached port.
type Port struct {
	name     string
	scenario *Scenario
	port     *bridge.Port
}

var (
	_ starlark.Value    = (*Port)(nil)
	_ starlark.HasAttrs = (*Port)(nil)
)

type method func(p *Port, thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var methods = map[string]method{
	"write":       (*Port).write,
	"write_byte":  (*Port).writeByte,
	"flush":       (*Port).flush,
	"read":        (*Port).read,
	"read_byte":   (*Port).readByte,
	"transfer":    (*Port).transfer,
	"hello":       (*Port).hello,
	"loopback":    (*Port).loopback,
	"receive":     (*Port).receive,
	"transmitted": (*Port).transmitted,
}

func (p *Port) String() string        { return "<port " + p.name + ">" }
func (p *Port) Type() string          { return "port" }
func (p *Port) Freeze()               {}
func (p *Port) Truth() starlark.Bool  { return starlark.True }
func (p *Port) Hash() (uint32, error) { return starlark.String(p.name).Hash() }

func (p *Port) Attr(name string) (value starlark.Value, err error) {
	fn, ok := methods[name]
	if !ok {
		return
	}

	value = starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return fn(p, thread, b, args, kwargs)
	})
	return
}

func (p *Port) AttrNames() (names []string) {
	for name := range methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return
}

func drive[T any](p *Port, thread *starlark.Thread, fut async.Future[T]) (value T, polls int, err error) {
	ex := p.scenario.Executor
	if ex == nil {
		ex = &executor.Executor{}
	}

	return executor.Drive(threadContext(thread), ex, fut)
}

func result(value starlark.Value, polls int) starlark.Tuple {
	return starlark.Tuple{value, starlark.MakeInt(polls)}
}

func toBytes(value starlark.Value) (data []byte, err error) {
	switch value := value.(type) {
	case starlark.Bytes:
		data = []byte(value)
	case starlark.String:
		data = []byte(value)
	case *starlark.List:
		data = make([]byte, value.Len())
		for n := range data {
			var item int
			item, err = starlark.AsInt32(value.Index(n))
			if err != nil {
				return
			}
			if item < 0 || item > 0xff {
				err = ErrByteRange
				return
			}
			data[n] = byte(item)
		}
	default:
		err = ErrNotBytes
	}

	return
}

func (p *Port) unit(thread *starlark.Thread, fut async.Future[struct{}]) (starlark.Value, error) {
	_, polls, err := drive(p, thread, fut)
	if err != nil {
		return nil, err
	}
	return result(starlark.None, polls), nil
}

func (p *Port) write(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	data, err := toBytes(value)
	if err != nil {
		return nil, err
	}
	return p.unit(thread, p.port.AsyncWrite(data))
}

func (p *Port) writeByte(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	if value < 0 || value > 0xff {
		return nil, ErrByteRange
	}
	return p.unit(thread, p.port.AsyncWriteByte(byte(value)))
}

func (p *Port) flush(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return p.unit(thread, p.port.AsyncFlush())
}

func (p *Port) read(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var size int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &size); err != nil {
		return nil, err
	}
	if size < 0 {
		size = 0
	}
	data := make([]byte, size)
	_, polls, err := drive(p, thread, p.port.AsyncRead(data))
	if err != nil {
		return nil, err
	}
	return result(starlark.Bytes(data), polls), nil
}

func (p *Port) readByte(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	value, polls, err := drive(p, thread, p.port.AsyncReadByte())
	if err != nil {
		return nil, err
	}
	return result(starlark.MakeInt(int(value)), polls), nil
}

func (p *Port) transfer(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	data, err := toBytes(value)
	if err != nil {
		return nil, err
	}
	_, polls, err := drive(p, thread, p.port.AsyncTransfer(data))
	if err != nil {
		return nil, err
	}
	return result(starlark.Bytes(data), polls), nil
}

func (p *Port) hello(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	h := &driver.Hello{Writer: &driver.Newline{Inner: p.port}}
	return p.unit(thread, h.SendHello())
}

func (p *Port) loopback(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var size int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0, &size); err != nil {
		return nil, err
	}
	lb := &driver.Loopback{Link: p.port, Size: size}
	return p.unit(thread, lb.Check())
}

func (p *Port) receive(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	data, err := toBytes(value)
	if err != nil {
		return nil, err
	}
	rx, ok := p.port.Device.(receiver)
	if !ok {
		return nil, ErrNoReceive
	}
	for _, ch := range data {
		rx.Receive(ch)
	}
	return starlark.None, nil
}

func (p *Port) transmitted(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	tx, ok := p.port.Device.(transmitter)
	if !ok {
		return starlark.Bytes(""), nil
	}
	return starlark.Bytes(tx.Transmitted()), nil
}
