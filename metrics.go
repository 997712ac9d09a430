package goGate

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by goGate APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricDecisionAllow is an exported constant or variable used by the routing engine.
	MetricDecisionAllow MetricID = iota
	// MetricDecisionRedirect is an exported constant or variable used by the routing engine.
	MetricDecisionRedirect
	// MetricAPIBypass is an exported constant or variable used by the routing engine.
	MetricAPIBypass
	// MetricVerifyAllowed is an exported constant or variable used by the routing engine.
	MetricVerifyAllowed
	// MetricVerifyRejected is an exported constant or variable used by the routing engine.
	MetricVerifyRejected
	// MetricProtectedAllow is an exported constant or variable used by the routing engine.
	MetricProtectedAllow
	// MetricPublicExempt is an exported constant or variable used by the routing engine.
	MetricPublicExempt
	// MetricDashboardSteer is an exported constant or variable used by the routing engine.
	MetricDashboardSteer
	// MetricOnboardingRevisit is an exported constant or variable used by the routing engine.
	MetricOnboardingRevisit
	// MetricSignInRedirect is an exported constant or variable used by the routing engine.
	MetricSignInRedirect
	// MetricOnboardingSteer is an exported constant or variable used by the routing engine.
	MetricOnboardingSteer
	// MetricFallbackAllow is an exported constant or variable used by the routing engine.
	MetricFallbackAllow
	// MetricSessionResolveFailure is an exported constant or variable used by the routing engine.
	MetricSessionResolveFailure
	// MetricAttemptResolveFailure is an exported constant or variable used by the routing engine.
	MetricAttemptResolveFailure
	// MetricDecideLatency is an exported constant or variable used by the routing engine.
	MetricDecideLatency
	metricIDCount
)

var metricIDNames = [metricIDCount]string{
	MetricDecisionAllow:         "decision_allow",
	MetricDecisionRedirect:      "decision_redirect",
	MetricAPIBypass:             "api_bypass",
	MetricVerifyAllowed:         "verify_allowed",
	MetricVerifyRejected:        "verify_rejected",
	MetricProtectedAllow:        "protected_allow",
	MetricPublicExempt:          "public_exempt",
	MetricDashboardSteer:        "dashboard_steer",
	MetricOnboardingRevisit:     "onboarding_revisit",
	MetricSignInRedirect:        "sign_in_redirect",
	MetricOnboardingSteer:       "onboarding_steer",
	MetricFallbackAllow:         "fallback_allow",
	MetricSessionResolveFailure: "session_resolve_failure",
	MetricAttemptResolveFailure: "attempt_resolve_failure",
	MetricDecideLatency:         "decide_latency",
}

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricIDNames[id]
}

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by goGate APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by goGate APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics may return an error when input validation, dependency calls, or security checks fail.
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled describes the enabled operation and its observable behavior.
//
// Enabled may return an error when input validation, dependency calls, or security checks fail.
// Enabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled describes the latencyenabled operation and its observable behavior.
//
// LatencyEnabled may return an error when input validation, dependency calls, or security checks fail.
// LatencyEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc describes the inc operation and its observable behavior.
//
// Inc may return an error when input validation, dependency calls, or security checks fail.
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe describes the observe operation and its observable behavior.
//
// Observe may return an error when input validation, dependency calls, or security checks fail.
// Observe does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricDecideLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value describes the value operation and its observable behavior.
//
// Value may return an error when input validation, dependency calls, or security checks fail.
// Value does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot may return an error when input validation, dependency calls, or security checks fail.
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricDecideLatency].buckets[i])
		}
		s.Histograms[MetricDecideLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 5:
		return 0
	case us <= 10:
		return 1
	case us <= 25:
		return 2
	case us <= 50:
		return 3
	case us <= 100:
		return 4
	case us <= 250:
		return 5
	case us <= 500:
		return 6
	default:
		return 7
	}
}
