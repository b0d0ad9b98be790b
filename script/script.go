// Package script runs starlark scenarios against bridged peripherals.
//
// Each attached port is predeclared by name, with methods that drive one
// unit to completion and return a (result, polls) tuple:
//
//	write(data)       -> (None, polls)
//	write_byte(value) -> (None, polls)
//	flush()           -> (None, polls)
//	read(n)           -> (bytes, polls)
//	read_byte()       -> (int, polls)
//	transfer(data)    -> (bytes, polls)
//	hello()           -> (None, polls)
//	loopback(size)    -> (None, polls)
//
// plus receive(data), which feeds a receiver, and transmitted(), which
// returns everything shifted out so far. Device defines are predeclared as
// integers, prefixed by the port name: UART_DEPTH, SPI_TICKS_PER_BYTE.
package script

import (
	"context"
	"iter"
	"log"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/nbasync/bridge"
	"github.com/ezrec/nbasync/executor"
	"github.com/ezrec/nbasync/internal"
	"github.com/ezrec/nbasync/periph"
)

// definer is a device that describes itself.
type definer interface {
	Defines() iter.Seq2[string, string]
}

// receiver is a device that can be fed incoming bytes.
type receiver interface {
	Receive(value byte)
}

// transmitter is a device that records what it shifted out.
type transmitter interface {
	Transmitted() []byte
}

// Scenario is a set of ports exposed to scripts.
type Scenario struct {
	Verbose  bool               // If set, logs every port call.
	Executor *executor.Executor // Drives each unit. Nil uses a default.

	names []string
	ports map[string]*Port
}

// Attach makes device available to scripts under name.
func (sc *Scenario) Attach(name string, device periph.Device) (port *bridge.Port) {
	if sc.ports == nil {
		sc.ports = map[string]*Port{}
	}

	port = bridge.NewPort(name, device)
	port.Verbose = sc.Verbose
	if _, ok := sc.ports[name]; !ok {
		sc.names = append(sc.names, name)
	}
	sc.ports[name] = &Port{name: name, scenario: sc, port: port}

	return
}

// Defines returns the defines of all attached devices, prefixed by port name.
func (sc *Scenario) Defines() iter.Seq2[string, string] {
	var seqs []iter.Seq2[string, string]
	for _, name := range sc.names {
		device, ok := sc.ports[name].port.Device.(definer)
		if !ok {
			continue
		}
		seqs = append(seqs, prefixed(strings.ToUpper(name)+"_", device.Defines()))
	}

	return internal.IterSeq2Concat(seqs...)
}

func prefixed(prefix string, seq iter.Seq2[string, string]) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for key, value := range seq {
			if !yield(prefix+key, value) {
				return
			}
		}
	}
}

// Run executes a script. src may be a string, []byte or io.Reader, or nil to
// read the file named by filename.
func (sc *Scenario) Run(ctx context.Context, filename string, src any) (globals starlark.StringDict, err error) {
	pred := starlark.StringDict{}
	for key, str := range sc.Defines() {
		value, aerr := strconv.Atoi(str)
		if aerr != nil {
			continue
		}
		pred[key] = starlark.MakeInt(value)
	}
	for name, port := range sc.ports {
		pred[name] = port
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(thread *starlark.Thread, msg string) {
			log.Printf("%v: %v", thread.Name, msg)
		},
	}
	thread.SetLocal(contextKey, ctx)

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	opts := syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}
	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		err = &ErrScenario{Script: filename, Err: err}
		return
	}

	return
}

const contextKey = "context"

func threadContext(thread *starlark.Thread) context.Context {
	ctx, ok := thread.Local(contextKey).(context.Context)
	if !ok {
		return context.Background()
	}
	return ctx
}
