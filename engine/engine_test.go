package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/internal/testutil"
	"github.com/hupe1980/tinyservice/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WaitsForWake(t *testing.T) {
	fut := testutil.NewManualFuture[int]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		fut.Complete(42)
	}()

	v, err := Run[int](context.Background(), New(), fut)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.GreaterOrEqual(t, fut.Polls(), 1)
}

func TestRun_ContextCancellationDropsFuture(t *testing.T) {
	fut := testutil.NewManualFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Run[int](ctx, New(), fut)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, fut.Dropped())
}

func TestEngine_CancelByInvocationID(t *testing.T) {
	e := New()
	fut := testutil.NewManualFuture[int]()

	errCh := make(chan error, 1)
	go func() {
		_, err := Run[int](context.Background(), e, fut)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return len(e.Active()) == 1 }, time.Second, time.Millisecond)
	assert.True(t, e.Cancel(e.Active()[0]))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrCancelled)
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
	assert.True(t, fut.Dropped())
	assert.Empty(t, e.Active())
	assert.False(t, e.Cancel("unknown"))
}

// restless never resolves and wakes itself on every poll.
type restless struct{ dropped bool }

func (r *restless) Poll(cx *core.Context) core.Poll[int] {
	cx.Waker().Wake()
	return core.Pending[int]()
}

func (r *restless) Drop() { r.dropped = true }

func TestRun_MaxPolls(t *testing.T) {
	e := New(func(o *Options) { o.Config.MaxPolls = 5 })
	fut := &restless{}

	_, err := Run[int](context.Background(), e, fut)
	assert.ErrorIs(t, err, ErrMaxPollsExceeded)
	assert.True(t, fut.dropped)
}

func TestBlockOn_ConcreteScenario(t *testing.T) {
	svc := service.Ext[int, int](service.Sync(func(n int) (int, error) { return n * 2, nil })).
		MapResponse(func(n int) int { return n + 1 }).
		Box()

	res, err := BlockOn[core.Result[int]](context.Background(), svc.Call(5))
	require.NoError(t, err)
	assert.Equal(t, core.Ok(11), res)
}

func TestCall_BlockingServiceAndCallbacks(t *testing.T) {
	var mu sync.Mutex
	var seen []CallbackType
	record := func(_ context.Context, cb CallbackContext) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, cb.Type)
		assert.NotEmpty(t, cb.InvocationID)
	}

	var failures int
	e := New(func(o *Options) {
		o.Callbacks = append(o.Callbacks, record, OnType(CallbackOnError, func(context.Context, CallbackContext) { failures++ }))
	})

	svc := service.Blocking(context.Background(), func(ctx context.Context, s string) (int, error) {
		time.Sleep(5 * time.Millisecond)
		return len(s), nil
	})

	n, err := Call[string, int](context.Background(), e, svc, "four")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []CallbackType{CallbackBeforeCall, CallbackAfterCall}, seen)
	assert.Equal(t, 0, failures)
}

func TestCall_Failure(t *testing.T) {
	errBoom := errors.New("boom")
	var got CallbackContext
	e := New(func(o *Options) {
		o.Callbacks = []Callback{OnType(CallbackOnError, func(_ context.Context, cb CallbackContext) { got = cb })}
	})

	svc := service.Sync(func(int) (int, error) { return 0, errBoom })
	_, err := Call[int, int](context.Background(), e, svc, 1)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, CallbackOnError, got.Type)
	assert.ErrorIs(t, got.Err, errBoom)
}

// closedService reports a readiness failure.
type closedService struct{ err error }

func (c closedService) PollReady(*core.Context) core.Readiness { return core.ServiceFailed(c.err) }

func (c closedService) Call(int) core.Future[core.Result[int]] {
	panic("called a service that reported a readiness failure")
}

func TestCall_ReadinessFailureIsNotCalled(t *testing.T) {
	errClosed := errors.New("closed")
	_, err := Call[int, int](context.Background(), New(), closedService{err: errClosed}, 1)
	assert.ErrorIs(t, err, errClosed)
}

func TestCall_CancelledReturnsCause(t *testing.T) {
	var got CallbackType
	e := New(func(o *Options) {
		o.Callbacks = []Callback{OnType(CallbackOnCancel, func(_ context.Context, cb CallbackContext) { got = cb.Type })}
	})

	inner := testutil.NewManualFuture[core.Result[int]]()
	svc := service.Func(func(int) core.Future[core.Result[int]] { return inner })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	n, err := Call[int, int](ctx, e, svc, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, n)
	assert.True(t, inner.Dropped())
	assert.Equal(t, CallbackOnCancel, got)
}
