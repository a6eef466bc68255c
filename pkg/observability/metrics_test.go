package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	// Should not panic
	m.Counter("test", 1)
	m.Timing("test", time.Second)
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("Counter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("requests", 1)
		m.Counter("requests", 1)
		m.Counter("requests", 1)

		assert.Equal(t, int64(3), m.GetCounter("requests"))
	})

	t.Run("Counter with tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("requests", 1, T("method", "GET"))
		m.Counter("requests", 1, T("method", "POST"))
		m.Counter("requests", 1, T("method", "GET"))

		assert.Equal(t, int64(2), m.GetCounter("requests", T("method", "GET")))
		assert.Equal(t, int64(1), m.GetCounter("requests", T("method", "POST")))
	})

	t.Run("tag order does not matter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("requests", 1, T("a", "1"), T("b", "2"))
		m.Counter("requests", 1, T("b", "2"), T("a", "1"))

		assert.Equal(t, int64(2), m.GetCounter("requests", T("a", "1"), T("b", "2")))
	})

	t.Run("Snapshot summarizes timings", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing("fetch", 10*time.Millisecond)
		m.Timing("fetch", 30*time.Millisecond)
		m.Counter("hits", 2)

		snap := m.Snapshot()
		require.Contains(t, snap.Timings, "fetch")
		assert.Equal(t, TimingSummary{Count: 2, MinMs: 10, MaxMs: 30, AvgMs: 20}, snap.Timings["fetch"])
		assert.Equal(t, int64(2), snap.Counters["hits"])
	})

	t.Run("timings aggregate without keeping samples", func(t *testing.T) {
		m := NewInMemoryMetrics()

		for i := 1; i <= 1000; i++ {
			m.Timing("fetch", time.Duration(i)*time.Millisecond)
		}

		assert.Equal(t, TimingSummary{Count: 1000, MinMs: 1, MaxMs: 1000, AvgMs: 500}, m.GetTiming("fetch"))
		assert.Len(t, m.timings, 1)
	})

	t.Run("Reset", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter("hits", 1)
		m.Timing("fetch", time.Millisecond)

		m.Reset()

		assert.Zero(t, m.GetCounter("hits"))
		assert.Zero(t, m.GetTiming("fetch"))
	})
}

func TestTimeOperationResult(t *testing.T) {
	t.Run("records success", func(t *testing.T) {
		m := NewInMemoryMetrics()

		got, err := TimeOperationResult(context.Background(), nil, m, "fetch", func() (int, error) {
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, int64(1), m.GetCounter(MetricOperationTotal, T("operation", "fetch")))
		assert.Zero(t, m.GetCounter(MetricOperationErrors, T("operation", "fetch")))
	})

	t.Run("records failure", func(t *testing.T) {
		m := NewInMemoryMetrics()
		boom := errors.New("boom")

		_, err := TimeOperationResult(context.Background(), nil, m, "fetch", func() (string, error) {
			return "", boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, T("operation", "fetch")))
		assert.Equal(t, 1, m.GetTiming(MetricOperationDuration, T("operation", "fetch")).Count)
	})
}
