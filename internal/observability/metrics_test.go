package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordRequest("/admin/stats", "GET", 200, 5*time.Millisecond)
	metrics.RecordRequest("/admin/stats", "GET", 200, 7*time.Millisecond)
	metrics.RecordRequest("/customer/topup", "POST", 201, time.Millisecond)
	metrics.RecordError("/customer/topup", "POST", "VALIDATION_FAILED")

	requests := metrics.RequestTotals()
	assert.Equal(t, int64(2), requests["/admin/stats|GET|200"])
	assert.Equal(t, int64(1), requests["/customer/topup|POST|201"])

	errors := metrics.ErrorTotals()
	assert.Equal(t, int64(1), errors["/customer/topup|POST|VALIDATION_FAILED"])

	// returned maps are copies
	requests["/admin/stats|GET|200"] = 99
	assert.Equal(t, int64(2), metrics.RequestTotals()["/admin/stats|GET|200"])
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordRequest("/health/live", "GET", 200, 0)
	metrics.RecordError("/health/live", "GET", "INTERNAL_ERROR")
}
