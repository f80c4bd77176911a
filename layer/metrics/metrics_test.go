package metrics

import (
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/internal/testutil"
	"github.com/hupe1980/tinyservice/service"
)

// sample returns the counter or gauge value for the metric with the given
// labels, or -1 when absent.
func sample(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				switch {
				case m.GetCounter() != nil:
					return m.GetCounter().GetValue()
				case m.GetGauge() != nil:
					return m.GetGauge().GetValue()
				case m.GetHistogram() != nil:
					return float64(m.GetHistogram().GetSampleCount())
				}
			}
		}
	}

	return -1
}

func matches(m *dto.Metric, labels map[string]string) bool {
	if len(m.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range m.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestLayer_CountsOutcomes(t *testing.T) {
	c := NewCollector("test")
	errOdd := errors.New("odd")

	svc := service.Ext[int, int](service.Sync(func(n int) (int, error) {
		if n%2 == 1 {
			return 0, errOdd
		}
		return n, nil
	})).Layer(Layer[int, int](c, "even"))

	for _, n := range []int{2, 4, 5} {
		_, ok := testutil.PollUntilReady[core.Result[int]](svc.Call(n), 1)
		require.True(t, ok)
	}

	assert.Equal(t, 2.0, sample(t, c, "test_service_calls_total", map[string]string{"route": "even", "outcome": OutcomeOK}))
	assert.Equal(t, 1.0, sample(t, c, "test_service_calls_total", map[string]string{"route": "even", "outcome": OutcomeError}))
	assert.Equal(t, 2.0, sample(t, c, "test_service_call_duration_seconds", map[string]string{"route": "even", "outcome": OutcomeOK}))
	assert.Equal(t, 0.0, sample(t, c, "test_service_in_flight", map[string]string{"route": "even"}))
}

func TestLayer_InFlightAndCancel(t *testing.T) {
	c := NewCollector("")
	inner := testutil.NewManualFuture[core.Result[string]]()
	svc := Layer[string, string](c, "slow")(service.Func(func(string) core.Future[core.Result[string]] {
		return inner
	}))

	fut := svc.Call("x")
	assert.True(t, testutil.PollOnce(fut).IsPending())
	assert.Equal(t, 1.0, sample(t, c, "tinyservice_service_in_flight", map[string]string{"route": "slow"}))

	core.Drop(fut)
	assert.True(t, inner.Dropped())
	assert.Equal(t, 0.0, sample(t, c, "tinyservice_service_in_flight", map[string]string{"route": "slow"}))
	assert.Equal(t, 1.0, sample(t, c, "tinyservice_service_calls_total", map[string]string{"route": "slow", "outcome": OutcomeCanceled}))

	assert.Panics(t, func() { fut.Poll(core.Background()) })
}
