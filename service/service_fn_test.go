package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ core.Service[int, int] = ServiceFunc[int, int](nil)
	_ core.Service[int, int] = (*MapRequest[int, string, int])(nil)
	_ core.Service[int, int] = (*MapResponse[int, string, int])(nil)
	_ core.Service[int, int] = (*MapErr[int, int])(nil)
	_ core.Service[int, int] = (*MapResult[int, string, int])(nil)
	_ core.Service[int, int] = (*MapFuture[int, string, int])(nil)
	_ core.Service[int, int] = (*Then[int, string, int])(nil)
	_ core.Service[int, int] = (*AndThen[int, string, int])(nil)
	_ core.Service[int, int] = (*BoxService[int, int])(nil)
	_ core.Service[int, int] = Builder[int, int]{}

	_ core.Dropper = (*MapResponseFuture[int, int])(nil)
	_ core.Dropper = (*MapErrFuture[int])(nil)
	_ core.Dropper = (*MapResultFuture[int, int])(nil)
	_ core.Dropper = (*ThenFuture[int, int])(nil)
	_ core.Dropper = (*AndThenFuture[int, int])(nil)
	_ core.Dropper = (*BoxFuture[int])(nil)
	_ core.Dropper = (*OneshotFuture[int, int])(nil)
)

var errBoom = errors.New("boom")

func double(n int) (int, error) { return n * 2, nil }

func failing(n int) (int, error) { return 0, errBoom }

// manual returns a service handing out the given future on every call.
func manual[Req, Resp any](fut *testutil.ManualFuture[core.Result[Resp]]) ServiceFunc[Req, Resp] {
	return func(Req) core.Future[core.Result[Resp]] { return fut }
}

// requirePanicIs asserts fn panics with an error matching target.
func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.ErrorIs(t, err, target)
	}()
	fn()
}

func TestServiceFunc_ResolvesToFunctionResult(t *testing.T) {
	fn := func(n int) core.Future[core.Result[int]] {
		if n < 0 {
			return core.ErrFuture[int](errBoom)
		}
		return core.OkFuture(n * 3)
	}
	svc := Func(fn)

	assert.True(t, svc.PollReady(core.Background()).IsReady())
	assert.NoError(t, svc.PollReady(core.Background()).Value())

	for _, n := range []int{-1, 0, 4, 100} {
		want := testutil.PollOnce(fn(n))
		got := testutil.PollOnce(svc.Call(n))
		assert.Equal(t, want, got, "input %d", n)
	}
}

func TestSync(t *testing.T) {
	svc := Sync(double)
	res, ok := testutil.PollOnce(svc.Call(21)).Unwrap()
	require.True(t, ok)
	assert.Equal(t, core.Ok(42), res)

	res, ok = testutil.PollOnce(Sync(failing).Call(1)).Unwrap()
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, errBoom)
}

func TestBlocking(t *testing.T) {
	svc := Blocking(context.Background(), func(ctx context.Context, s string) (int, error) {
		return len(s), nil
	})

	fut := svc.Call("hello")
	w := &testutil.CountingWaker{}
	cx := core.NewContext(context.Background(), w)

	var got core.Result[int]
	require.Eventually(t, func() bool {
		v, ok := fut.Poll(cx).Unwrap()
		if ok {
			got = v
		}
		return ok
	}, time.Second, time.Millisecond)
	assert.Equal(t, core.Ok(5), got)
}

func TestBlocking_DropCancelsContext(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	svc := Blocking(context.Background(), func(ctx context.Context, _ int) (int, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	})

	fut := svc.Call(1)
	assert.True(t, testutil.PollOnce(fut).IsPending())
	<-started
	core.Drop(fut)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("dropping the future did not cancel the goroutine")
	}
	requirePanicIs(t, core.ErrPolledAfterDrop, func() { testutil.PollOnce(fut) })
}
