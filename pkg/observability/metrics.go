package observability

import (
	"sort"
	"sync"
	"time"
)

// Metrics provides an interface for recording application metrics.
type Metrics interface {
	// Counter increments a counter metric.
	Counter(name string, value int64, tags ...Tag)

	// Timing records a duration.
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag represents a key-value pair for metric labeling.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics is a no-op implementation of Metrics.
type NoopMetrics struct{}

func (NoopMetrics) Counter(name string, value int64, tags ...Tag)          {}
func (NoopMetrics) Timing(name string, duration time.Duration, tags ...Tag) {}

// InMemoryMetrics keeps counters and timings in process. The proxy exposes
// a snapshot of it on /metrics.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	timings  map[string]*timingStats
}

// timingStats is a running aggregate, so memory per key stays constant.
type timingStats struct {
	count    int
	min, max time.Duration
	sum      time.Duration
}

func (s *timingStats) add(d time.Duration) {
	if s.count == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.sum += d
	s.count++
}

func (s *timingStats) summary() TimingSummary {
	if s == nil || s.count == 0 {
		return TimingSummary{}
	}
	return TimingSummary{
		Count: s.count,
		MinMs: s.min.Milliseconds(),
		MaxMs: s.max.Milliseconds(),
		AvgMs: (s.sum / time.Duration(s.count)).Milliseconds(),
	}
}

// NewInMemoryMetrics creates a new in-memory metrics collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]int64),
		timings:  make(map[string]*timingStats),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[formatKey(name, tags)] += value
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	st, ok := m.timings[key]
	if !ok {
		st = &timingStats{}
		m.timings[key] = st
	}
	st.add(duration)
}

// GetCounter returns the current value of a counter.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[formatKey(name, tags)]
}

// GetTiming returns the aggregate of the durations recorded for a key.
func (m *InMemoryMetrics) GetTiming(name string, tags ...Tag) TimingSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timings[formatKey(name, tags)].summary()
}

// TimingSummary aggregates recorded durations for one key.
type TimingSummary struct {
	Count int   `json:"count"`
	MinMs int64 `json:"min_ms"`
	MaxMs int64 `json:"max_ms"`
	AvgMs int64 `json:"avg_ms"`
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Counters map[string]int64         `json:"counters"`
	Timings  map[string]TimingSummary `json:"timings"`
}

// Snapshot returns a copy of the recorded metrics with timings summarized.
func (m *InMemoryMetrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Timings:  make(map[string]TimingSummary, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, st := range m.timings {
		if st.count == 0 {
			continue
		}
		snap.Timings[k] = st.summary()
	}
	return snap
}

// Reset clears all recorded metrics.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
	m.timings = make(map[string]*timingStats)
}

// formatKey renders name plus tags sorted by key, so tag order at the call
// site does not split a series.
func formatKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	key := name
	for _, t := range sorted {
		key += ":" + t.Key + "=" + t.Value
	}
	return key
}

// Metric names used by the proxy and the listing client.
const (
	MetricOperationTotal    = "ideas.operation.total"
	MetricOperationDuration = "ideas.operation.duration"
	MetricOperationErrors   = "ideas.operation.errors"

	MetricHTTPRequests = "ideas.http.requests"

	MetricUpstreamRequests = "ideas.upstream.requests"
	MetricUpstreamFailures = "ideas.upstream.failures"

	MetricSourceFetches     = "ideas.source.fetches"
	MetricSourceFailures    = "ideas.source.failures"
	MetricSourceCircuitOpen = "ideas.source.circuit_open"
)
