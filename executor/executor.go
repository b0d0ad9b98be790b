// Package executor is a minimal cooperative scheduler for async units.
//
// BlockOn drives a single unit on the calling goroutine; its waker may be
// called from any goroutine, as an interrupt handler would. Executor runs
// several units round-robin on one goroutine, one poll per woken unit per
// turn; there, wakes must come from within polls.
package executor

import (
	"context"
	"log"

	"github.com/ezrec/nbasync/async"
)

// Executor holds the scheduling policy and the spawned tasks.
type Executor struct {
	Verbose  bool // If set, logs task completion.
	Strict   bool // If set, BlockOn fails with ErrStalled instead of waiting for a wake.
	MaxPolls int  // Per unit poll budget. Zero is unbounded.

	Polls int // Total polls delivered.

	tasks []*task
	queue []*task
}

// signal is a coalescing waker: any number of wakes before the next poll
// count as one.
type signal struct {
	ch chan struct{}
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{}, 1)}
}

func (sig *signal) Wake() {
	select {
	case sig.ch <- struct{}{}:
	default:
	}
}

// BlockOn polls fut until it is Ready, with a default executor.
func BlockOn[T any](ctx context.Context, fut async.Future[T]) (value T, polls int, err error) {
	return Drive(ctx, &Executor{}, fut)
}

// Drive polls fut until it is Ready. If ctx is done first, the unit is
// cancelled and ctx.Err() returned; whatever the unit had already handed to
// hardware stays there.
func Drive[T any](ctx context.Context, ex *Executor, fut async.Future[T]) (value T, polls int, err error) {
	sig := newSignal()
	cx := async.NewContext(sig)

	for {
		if err = ctx.Err(); err != nil {
			fut.Cancel()
			return
		}

		if ex.MaxPolls > 0 && polls >= ex.MaxPolls {
			fut.Cancel()
			err = ErrPollLimit
			return
		}

		var poll async.Poll
		polls++
		ex.Polls++
		poll, value, err = fut.Poll(cx)
		if poll == async.Ready {
			if ex.Verbose {
				log.Printf("executor: ready after %v polls (err=%v)", polls, err)
			}
			return
		}

		select {
		case <-sig.ch:
			continue
		default:
		}

		if ex.Strict {
			fut.Cancel()
			err = ErrStalled
			return
		}

		select {
		case <-sig.ch:
		case <-ctx.Done():
			fut.Cancel()
			err = ctx.Err()
			return
		}
	}
}

// task is a spawned unit with its type erased.
type task struct {
	name   string
	poll   func(cx *async.Context) async.Poll
	cancel func()
	cx     *async.Context
	queued bool
	polls  int
	done   bool
}

// Spawn adds fut to the executor. When fut completes, done is called with
// its result, if done is not nil.
func Spawn[T any](ex *Executor, name string, fut async.Future[T], done func(value T, err error)) {
	t := &task{
		name:   name,
		cancel: fut.Cancel,
	}
	t.poll = func(cx *async.Context) async.Poll {
		poll, value, err := fut.Poll(cx)
		if poll == async.Ready && done != nil {
			done(value, err)
		}
		return poll
	}
	t.cx = async.NewContext(async.WakerFunc(func() { ex.wake(t) }))

	ex.tasks = append(ex.tasks, t)
	ex.wake(t)
}

func (ex *Executor) wake(t *task) {
	if t.done || t.queued {
		return
	}
	t.queued = true
	ex.queue = append(ex.queue, t)
}

// Pending returns the number of tasks not yet complete.
func (ex *Executor) Pending() (count int) {
	for _, t := range ex.tasks {
		if !t.done {
			count++
		}
	}
	return
}

// Run polls woken tasks in wake order until every task is complete.
func (ex *Executor) Run(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			ex.cancelAll()
		}
	}()

	for ex.Pending() > 0 {
		if err = ctx.Err(); err != nil {
			return
		}

		if len(ex.queue) == 0 {
			err = ErrStalled
			return
		}

		t := ex.queue[0]
		ex.queue = ex.queue[1:]
		t.queued = false
		if t.done {
			continue
		}

		if ex.MaxPolls > 0 && t.polls >= ex.MaxPolls {
			err = &ErrTask{Task: t.name, Err: ErrPollLimit}
			return
		}

		t.polls++
		ex.Polls++
		if t.poll(t.cx) == async.Ready {
			t.done = true
			if ex.Verbose {
				log.Printf("executor: %v ready after %v polls", t.name, t.polls)
			}
		}
	}

	ex.tasks = nil
	ex.queue = nil

	return
}

func (ex *Executor) cancelAll() {
	for _, t := range ex.tasks {
		if !t.done {
			t.cancel()
			t.done = true
		}
	}
	ex.tasks = nil
	ex.queue = nil
}
