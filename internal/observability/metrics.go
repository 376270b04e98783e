package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process request and error counters, keyed by
// path|method|status and path|method|code. Enough for the portal's
// single-instance deployments; nothing is exported to a scraper.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]int64
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := counterKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[key]++
}

// RecordError counts a request that ended in a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := counterKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// RequestTotals returns a copy of the request counters.
func (m *Metrics) RequestTotals() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCounters(m.requests)
}

// ErrorTotals returns a copy of the error counters.
func (m *Metrics) ErrorTotals() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCounters(m.errors)
}

func counterKey(parts ...string) string {
	key := parts[0]
	for _, part := range parts[1:] {
		key += "|" + part
	}
	return key
}

func copyCounters(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for key, count := range src {
		out[key] = count
	}
	return out
}
