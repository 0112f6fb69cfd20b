package service

import (
	"sync/atomic"
	"time"
)

// Metrics tracks store call metrics
type Metrics struct {
	StoreCalls   int64 `json:"store_calls"`
	StoreErrors  int64 `json:"store_errors"`
	StoreTimeout int64 `json:"store_timeouts"`
	storeLatency int64 // Total latency in nanoseconds
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		StoreCalls:   atomic.LoadInt64(&globalMetrics.StoreCalls),
		StoreErrors:  atomic.LoadInt64(&globalMetrics.StoreErrors),
		StoreTimeout: atomic.LoadInt64(&globalMetrics.StoreTimeout),
		storeLatency: atomic.LoadInt64(&globalMetrics.storeLatency),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.StoreCalls, 0)
	atomic.StoreInt64(&globalMetrics.StoreErrors, 0)
	atomic.StoreInt64(&globalMetrics.StoreTimeout, 0)
	atomic.StoreInt64(&globalMetrics.storeLatency, 0)
}

func recordStoreCall(duration time.Duration, err error, timedOut bool) {
	atomic.AddInt64(&globalMetrics.StoreCalls, 1)
	atomic.AddInt64(&globalMetrics.storeLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.StoreErrors, 1)
	}
	if timedOut {
		atomic.AddInt64(&globalMetrics.StoreTimeout, 1)
	}
}

// AverageStoreLatency returns the average latency in milliseconds
func (m Metrics) AverageStoreLatency() float64 {
	if m.StoreCalls == 0 {
		return 0
	}
	avgNs := float64(m.storeLatency) / float64(m.StoreCalls)
	return avgNs / 1e6
}

// StoreErrorRate returns the error rate as a percentage
func (m Metrics) StoreErrorRate() float64 {
	if m.StoreCalls == 0 {
		return 0
	}
	return float64(m.StoreErrors) / float64(m.StoreCalls) * 100
}
