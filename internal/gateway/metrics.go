package gateway

import (
	"sync/atomic"
	"time"
)

// metrics tracks remote API call counts for one Client
type metrics struct {
	calls   atomic.Int64
	errors  atomic.Int64
	latency atomic.Int64 // total latency in nanoseconds
}

// Metrics is a point-in-time copy of the call counters
type Metrics struct {
	Calls   int64
	Errors  int64
	Latency time.Duration
}

func (m *metrics) record(duration time.Duration, err error) {
	m.calls.Add(1)
	m.latency.Add(duration.Nanoseconds())
	if err != nil {
		m.errors.Add(1)
	}
}

func (m *metrics) snapshot() Metrics {
	return Metrics{
		Calls:   m.calls.Load(),
		Errors:  m.errors.Load(),
		Latency: time.Duration(m.latency.Load()),
	}
}

// AverageLatency returns the mean call duration
func (m Metrics) AverageLatency() time.Duration {
	if m.Calls == 0 {
		return 0
	}
	return m.Latency / time.Duration(m.Calls)
}

// ErrorRate returns the error rate as a percentage
func (m Metrics) ErrorRate() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Errors) / float64(m.Calls) * 100
}
