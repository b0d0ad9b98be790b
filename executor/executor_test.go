package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/nbasync/async"
)

// countdown is Pending for Remaining polls, then Ready with Value.
type countdown struct {
	Name      string
	Remaining int
	Value     int
	Err       error
	Silent    bool // If set, does not wake on Pending.
	Cancelled bool
	Log       *[]string
}

func (cd *countdown) Poll(cx *async.Context) (poll async.Poll, value int, err error) {
	if cd.Log != nil {
		*cd.Log = append(*cd.Log, cd.Name)
	}
	if cd.Remaining > 0 {
		cd.Remaining--
		if !cd.Silent {
			cx.Wake()
		}
		return
	}
	return async.Ready, cd.Value, cd.Err
}

func (cd *countdown) Cancel() {
	cd.Cancelled = true
}

// external is woken by another goroutine.
type external struct {
	polls int
	fired bool
}

func (ext *external) Poll(cx *async.Context) (poll async.Poll, value struct{}, err error) {
	ext.polls++
	if ext.fired {
		poll = async.Ready
		return
	}
	ext.fired = true
	waker := cx.Waker()
	go func() {
		time.Sleep(5 * time.Millisecond)
		waker.Wake()
	}()
	return
}

func (ext *external) Cancel() {}

func TestBlockOn(t *testing.T) {
	assert := assert.New(t)

	value, polls, err := BlockOn(context.Background(), async.Future[int](&countdown{Remaining: 5, Value: 7}))
	assert.NoError(err)
	assert.Equal(7, value)
	assert.Equal(6, polls)
}

func TestBlockOn_Error(t *testing.T) {
	assert := assert.New(t)

	boom := errors.New("boom")
	_, polls, err := BlockOn[int](context.Background(), &countdown{Remaining: 1, Err: boom})
	assert.Equal(boom, err)
	assert.Equal(2, polls)
}

func TestDrive_Strict(t *testing.T) {
	assert := assert.New(t)

	cd := &countdown{Remaining: 1, Silent: true}
	_, polls, err := Drive[int](context.Background(), &Executor{Strict: true}, cd)
	assert.ErrorIs(err, ErrStalled)
	assert.Equal(1, polls)
	assert.True(cd.Cancelled)
}

func TestDrive_ExternalWake(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ext := &external{}
	_, polls, err := Drive[struct{}](ctx, &Executor{}, ext)
	assert.NoError(err)
	assert.Equal(2, polls)
}

func TestDrive_Deadline(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	cd := &countdown{Remaining: 1, Silent: true}
	_, _, err := Drive[int](ctx, &Executor{}, cd)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.True(cd.Cancelled)
}

func TestDrive_Cancelled(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cd := &countdown{Remaining: 3}
	_, polls, err := Drive[int](ctx, &Executor{}, cd)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(0, polls)
	assert.True(cd.Cancelled)
}

func TestDrive_MaxPolls(t *testing.T) {
	assert := assert.New(t)

	ex := &Executor{MaxPolls: 3}
	cd := &countdown{Remaining: 10}
	_, polls, err := Drive[int](context.Background(), ex, cd)
	assert.ErrorIs(err, ErrPollLimit)
	assert.Equal(3, polls)
	assert.Equal(3, ex.Polls)
	assert.True(cd.Cancelled)
}

func TestExecutor_RoundRobin(t *testing.T) {
	assert := assert.New(t)

	var order []string
	ex := &Executor{}

	results := map[string]int{}
	record := func(name string) func(int, error) {
		return func(value int, err error) {
			assert.NoError(err)
			results[name] = value
		}
	}

	Spawn[int](ex, "a", &countdown{Name: "a", Remaining: 2, Value: 1, Log: &order}, record("a"))
	Spawn[int](ex, "b", &countdown{Name: "b", Remaining: 0, Value: 2, Log: &order}, record("b"))
	Spawn[int](ex, "c", &countdown{Name: "c", Remaining: 1, Value: 3, Log: &order}, record("c"))
	assert.Equal(3, ex.Pending())

	err := ex.Run(context.Background())
	assert.NoError(err)
	assert.Equal(0, ex.Pending())

	assert.Equal([]string{"a", "b", "c", "a", "c", "a"}, order)
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, results)
	assert.Equal(6, ex.Polls)
}

func TestExecutor_Stalled(t *testing.T) {
	assert := assert.New(t)

	ex := &Executor{}
	stuck := &countdown{Remaining: 1, Silent: true}
	Spawn[int](ex, "stuck", stuck, nil)

	err := ex.Run(context.Background())
	assert.ErrorIs(err, ErrStalled)
	assert.True(stuck.Cancelled)
}

func TestExecutor_MaxPolls(t *testing.T) {
	assert := assert.New(t)

	ex := &Executor{MaxPolls: 2}
	Spawn[int](ex, "slow", &countdown{Remaining: 5}, nil)

	err := ex.Run(context.Background())
	assert.ErrorIs(err, ErrPollLimit)

	var taskErr *ErrTask
	assert.True(errors.As(err, &taskErr))
	assert.Equal("slow", taskErr.Task)
}

// chatty wakes several times per poll.
type chatty struct {
	remaining int
	polls     int
}

func (ch *chatty) Poll(cx *async.Context) (poll async.Poll, value int, err error) {
	ch.polls++
	if ch.remaining == 0 {
		poll = async.Ready
		return
	}
	ch.remaining--
	cx.Wake()
	cx.Wake()
	cx.Wake()
	return
}

func (ch *chatty) Cancel() {}

func TestExecutor_WakesCoalesce(t *testing.T) {
	assert := assert.New(t)

	ex := &Executor{}
	ch := &chatty{remaining: 2}
	Spawn[int](ex, "chatty", ch, nil)

	err := ex.Run(context.Background())
	assert.NoError(err)
	assert.Equal(3, ch.polls)
	assert.Equal(3, ex.Polls)
}
