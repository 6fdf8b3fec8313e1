package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Requests             map[string]uint64 // keyed by "METHOD statusClass"
	RequestDurationCount uint64
	RequestDurationTotal time.Duration
	SessionsInvalidated  uint64
}

// InMemoryRecorder stores metrics in memory for tests and the CLI's
// verbose summary.
type InMemoryRecorder struct {
	mu                  sync.Mutex
	requests            map[string]uint64
	durationCount       uint64
	durationTotalNs     int64
	sessionsInvalidated uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{requests: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	requests := make(map[string]uint64, len(m.requests))
	for k, v := range m.requests {
		requests[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		Requests:             requests,
		RequestDurationCount: atomic.LoadUint64(&m.durationCount),
		RequestDurationTotal: time.Duration(atomic.LoadInt64(&m.durationTotalNs)),
		SessionsInvalidated:  atomic.LoadUint64(&m.sessionsInvalidated),
	}
}

// IncAPIRequest increments the counter for method and status class.
func (m *InMemoryRecorder) IncAPIRequest(method, statusClass string) {
	m.mu.Lock()
	m.requests[method+" "+statusClass]++
	m.mu.Unlock()
}

// ObserveAPIRequestDuration records request duration.
func (m *InMemoryRecorder) ObserveAPIRequestDuration(duration time.Duration) {
	atomic.AddUint64(&m.durationCount, 1)
	atomic.AddInt64(&m.durationTotalNs, duration.Nanoseconds())
}

// IncSessionInvalidated counts sessions ended by a 401.
func (m *InMemoryRecorder) IncSessionInvalidated() {
	atomic.AddUint64(&m.sessionsInvalidated, 1)
}
