package limit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/internal/testutil"
	"github.com/hupe1980/tinyservice/service"
)

func pendingService(futs *[]*testutil.ManualFuture[core.Result[int]]) service.ServiceFunc[int, int] {
	return service.Func(func(int) core.Future[core.Result[int]] {
		f := testutil.NewManualFuture[core.Result[int]]()
		*futs = append(*futs, f)
		return f
	})
}

func TestSemaphore(t *testing.T) {
	sem := NewSemaphore(1)
	w := &testutil.CountingWaker{}

	assert.True(t, sem.TryAcquire(w))
	assert.Equal(t, 0, sem.Available())
	assert.False(t, sem.TryAcquire(w))

	sem.Release()
	assert.Equal(t, 1, w.Wakes())
	assert.Equal(t, 0, sem.InFlight())

	unlimited := NewSemaphore(0)
	for i := 0; i < 10; i++ {
		assert.True(t, unlimited.TryAcquire(w))
	}
	assert.Equal(t, -1, unlimited.Available())
}

func TestConcurrencyLimit_HoldsPermitUntilResolved(t *testing.T) {
	var futs []*testutil.ManualFuture[core.Result[int]]
	sem := NewSemaphore(1)
	first := New[int, int](pendingService(&futs), sem)
	second := first.Handle()

	w := &testutil.CountingWaker{}
	cx := core.Background().WithWaker(w)

	require.True(t, first.PollReady(cx).IsReady())
	fut := first.Call(1)
	assert.Equal(t, 1, sem.InFlight())

	assert.True(t, second.PollReady(cx).IsPending())
	assert.True(t, fut.Poll(cx).IsPending())

	futs[0].Complete(core.Ok(2))
	p := fut.Poll(cx)
	require.True(t, p.IsReady())
	assert.Equal(t, core.Ok(2), p.Value())
	assert.Equal(t, 0, sem.InFlight())
	assert.GreaterOrEqual(t, w.Wakes(), 1)

	assert.True(t, second.PollReady(cx).IsReady())
}

func TestConcurrencyLimit_DropReleasesPermit(t *testing.T) {
	var futs []*testutil.ManualFuture[core.Result[int]]
	sem := NewSemaphore(1)
	svc := New[int, int](pendingService(&futs), sem)

	cx := core.Background()
	require.True(t, svc.PollReady(cx).IsReady())
	fut := svc.Call(1)

	core.Drop(fut)
	core.Drop(fut)
	assert.True(t, futs[0].Dropped())
	assert.Equal(t, 0, sem.InFlight())

	assert.Panics(t, func() { fut.Poll(cx) })
}

func TestConcurrencyLimit_CallWithoutReadiness(t *testing.T) {
	var futs []*testutil.ManualFuture[core.Result[int]]
	svc := New[int, int](pendingService(&futs), NewSemaphore(1))

	res, ok := testutil.PollUntilReady(svc.Call(1), 1)
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, core.ErrNotReady)
	assert.Empty(t, futs)
}

func TestConcurrencyLimit_InnerFailureReturnsPermit(t *testing.T) {
	errDown := errors.New("down")
	inner := failingReady[int, int]{err: errDown}
	sem := NewSemaphore(1)
	svc := New[int, int](inner, sem)

	r := svc.PollReady(core.Background())
	require.True(t, r.IsReady())
	assert.ErrorIs(t, r.Value(), errDown)
	assert.Equal(t, 0, sem.InFlight())
}

func TestLayer_WithBuilder(t *testing.T) {
	sem := NewSemaphore(2)
	svc := service.Ext[int, int](service.Sync(func(n int) (int, error) { return n * 2, nil })).
		Layer(Layer[int, int](sem))

	res, ok := testutil.PollUntilReady[core.Result[int]](service.Oneshot[int, int](svc, 21), 2)
	require.True(t, ok)
	assert.Equal(t, core.Ok(42), res)
	assert.Equal(t, 0, sem.InFlight())
}

type failingReady[Req, Resp any] struct{ err error }

func (f failingReady[Req, Resp]) PollReady(*core.Context) core.Readiness {
	return core.ServiceFailed(f.err)
}

func (f failingReady[Req, Resp]) Call(Req) core.Future[core.Result[Resp]] {
	return core.ErrFuture[Resp](f.err)
}

func TestConcurrencyLimit_InterleavedHandles(t *testing.T) {
	sem := NewSemaphore(8)
	double := service.Sync(func(n int) (int, error) { return n * 2, nil })
	shared := service.Box[int, int](service.Ext[int, int](double).Layer(Layer[int, int](sem)))

	a := service.Handle[int, int](shared)
	b := service.Handle[int, int](shared)

	cx := core.Background()
	require.True(t, a.PollReady(cx).IsReady())
	require.True(t, b.PollReady(cx).IsReady())
	assert.Equal(t, 2, sem.InFlight())

	res, ok := testutil.PollUntilReady(b.Call(1), 1)
	require.True(t, ok)
	assert.Equal(t, core.Ok(2), res)

	res, ok = testutil.PollUntilReady(a.Call(2), 1)
	require.True(t, ok)
	assert.Equal(t, core.Ok(4), res)

	assert.Equal(t, 0, sem.InFlight())
}

func TestConcurrencyLimit_ReleaseReturnsReservedPermit(t *testing.T) {
	var futs []*testutil.ManualFuture[core.Result[int]]
	sem := NewSemaphore(1)
	svc := New[int, int](pendingService(&futs), sem)

	require.True(t, svc.PollReady(core.Background()).IsReady())
	assert.Equal(t, 1, sem.InFlight())

	svc.Release()
	svc.Release()
	assert.Equal(t, 0, sem.InFlight())

	res, ok := testutil.PollUntilReady(svc.Call(1), 1)
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, core.ErrNotReady)
	assert.Empty(t, futs)
}

func TestConcurrencyLimit_ReleaseAfterCallKeepsPermit(t *testing.T) {
	var futs []*testutil.ManualFuture[core.Result[int]]
	sem := NewSemaphore(1)
	svc := New[int, int](pendingService(&futs), sem)

	require.True(t, svc.PollReady(core.Background()).IsReady())
	fut := svc.Call(1)

	svc.Release()
	assert.Equal(t, 1, sem.InFlight())

	core.Drop(fut)
	assert.Equal(t, 0, sem.InFlight())
}
