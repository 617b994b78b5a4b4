package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/beamspring/internal/input/socd"
)

// maxLatencySamples is the size of the latency ring buffer.
const maxLatencySamples = 1000

// Metrics tracks dispatcher decisions and processing latency.
// Counters may be read from any goroutine.
type Metrics struct {
	// Event counters
	events      atomic.Uint64
	passed      atomic.Uint64
	suppressed  atomic.Uint64
	synthetic   atomic.Uint64
	socdBlocked atomic.Uint64
	socdToggles atomic.Uint64
	macroKeys   atomic.Uint64
	repeatKeys  atomic.Uint64

	// Latency tracking
	mu         sync.RWMutex
	latencies  []time.Duration
	latencyIdx int
	peak       atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		latencies: make([]time.Duration, maxLatencySamples),
		startTime: time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// Record counts one decision and its processing time.
func (m *Metrics) Record(d Decision, latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	m.events.Add(1)
	if d.Continue {
		m.passed.Add(1)
	} else {
		m.suppressed.Add(1)
	}
	m.synthetic.Add(uint64(d.Synthetic))

	switch d.Route {
	case RouteSOCD:
		if d.Outcome == socd.Blocked {
			m.socdBlocked.Add(1)
		}
	case RouteSOCDToggle:
		if d.Toggled {
			m.socdToggles.Add(1)
		}
	case RouteMacro:
		m.macroKeys.Add(1)
	case RouteRepeat:
		m.repeatKeys.Add(1)
	}

	latencyNs := latency.Nanoseconds()
	for {
		current := m.peak.Load()
		if latencyNs <= current {
			break
		}
		if m.peak.CompareAndSwap(current, latencyNs) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % maxLatencySamples
	m.mu.Unlock()
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	// Counters
	Events      uint64
	Passed      uint64
	Suppressed  uint64
	Synthetic   uint64
	SOCDBlocked uint64
	SOCDToggles uint64
	MacroKeys   uint64
	RepeatKeys  uint64

	// Latency stats
	AvgLatency  time.Duration
	MaxLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	// Uptime
	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	latencies := slices.Clone(m.latencies)
	start := m.startTime
	m.mu.RUnlock()

	snap := MetricsSnapshot{
		Events:      m.events.Load(),
		Passed:      m.passed.Load(),
		Suppressed:  m.suppressed.Load(),
		Synthetic:   m.synthetic.Load(),
		SOCDBlocked: m.socdBlocked.Load(),
		SOCDToggles: m.socdToggles.Load(),
		MacroKeys:   m.macroKeys.Load(),
		RepeatKeys:  m.repeatKeys.Load(),
		PeakLatency: time.Duration(m.peak.Load()),
		Uptime:      time.Since(start),
	}
	snap.AvgLatency, snap.MaxLatency, snap.P99Latency = calculateLatencyStats(latencies)
	return snap
}

// calculateLatencyStats computes average, max, and p99 from a slice of latencies.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
	}
	avg = sum / time.Duration(len(valid))

	slices.Sort(valid)
	maxLat = valid[len(valid)-1]

	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]

	return avg, maxLat, p99
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.events.Store(0)
	m.passed.Store(0)
	m.suppressed.Store(0)
	m.synthetic.Store(0)
	m.socdBlocked.Store(0)
	m.socdToggles.Store(0)
	m.macroKeys.Store(0)
	m.repeatKeys.Store(0)
	m.peak.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, maxLatencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// Events returns the total number of events processed.
func (m *Metrics) Events() uint64 {
	return m.events.Load()
}

// Suppressed returns the number of events whose default handling was
// skipped.
func (m *Metrics) Suppressed() uint64 {
	return m.suppressed.Load()
}

// Timer helps measure operation duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// StartTimer starts a timer for measuring one dispatch.
func (m *Metrics) StartTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// Stop records the decision with the elapsed time.
func (t *Timer) Stop(d Decision) time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.Record(d, elapsed)
	return elapsed
}
