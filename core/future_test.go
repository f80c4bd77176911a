package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wakeCounter struct{ n chan struct{} }

func (w wakeCounter) Wake() {
	select {
	case w.n <- struct{}{}:
	default:
	}
}

func TestPoll(t *testing.T) {
	p := Ready(3)
	assert.True(t, p.IsReady())
	assert.False(t, p.IsPending())
	v, ok := p.Unwrap()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	q := Pending[int]()
	assert.True(t, q.IsPending())
	assert.Equal(t, 0, q.Value())
}

func TestReadiness(t *testing.T) {
	assert.True(t, ServiceReady().IsReady())
	assert.NoError(t, ServiceReady().Value())
	assert.True(t, ServiceNotReady().IsPending())

	err := errors.New("down")
	assert.Same(t, err, ServiceFailed(err).Value())
}

func TestResult(t *testing.T) {
	ok := Ok(1)
	assert.True(t, ok.IsOk())
	assert.Equal(t, "Ok(1)", ok.String())

	failed := ResultOf(5, errors.New("bad"))
	assert.True(t, failed.IsErr())
	v, err := failed.Unpack()
	assert.Equal(t, 0, v)
	assert.EqualError(t, err, "bad")
	assert.Equal(t, "Err(bad)", failed.String())
}

func TestResolved_SingleUse(t *testing.T) {
	f := Resolved("x")
	assert.Equal(t, Ready("x"), f.Poll(Background()))
	assert.PanicsWithError(t, fmt.Sprintf("%v: ReadyFuture", ErrPolledAfterCompletion), func() { f.Poll(Background()) })

	g := OkFuture(1)
	g.Drop()
	assert.PanicsWithError(t, fmt.Sprintf("%v: ReadyFuture", ErrPolledAfterDrop), func() { g.Poll(Background()) })
}

func TestDrop_IgnoresNonDroppers(t *testing.T) {
	f := FutureFunc[int](func(*Context) Poll[int] { return Ready(1) })
	assert.NotPanics(t, func() { Drop(f) })
}

func TestSpawn_WakesOnCompletion(t *testing.T) {
	release := make(chan struct{})
	f := Spawn(context.Background(), func(context.Context) int {
		<-release
		return 7
	})

	w := wakeCounter{n: make(chan struct{}, 1)}
	cx := NewContext(context.Background(), w)
	assert.True(t, f.Poll(cx).IsPending())

	close(release)
	select {
	case <-w.n:
	case <-time.After(time.Second):
		t.Fatal("waker was not woken")
	}

	v, ok := f.Poll(cx).Unwrap()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestSpawnResult(t *testing.T) {
	f := SpawnResult(context.Background(), func(context.Context) (string, error) { return "", errors.New("nope") })

	var res Result[string]
	require.Eventually(t, func() bool {
		v, ok := f.Poll(Background()).Unwrap()
		res = v
		return ok
	}, time.Second, time.Millisecond)
	assert.EqualError(t, res.Err, "nope")
}

func TestNewContext_Defaults(t *testing.T) {
	//nolint:staticcheck // nil context is normalised on purpose
	cx := NewContext(nil, nil)
	assert.NotNil(t, cx.Context())
	assert.Equal(t, NoopWaker, cx.Waker())

	called := false
	cx2 := cx.WithWaker(WakerFunc(func() { called = true }))
	cx2.Waker().Wake()
	assert.True(t, called)
}
