package srmutex

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	modeExclusive = "exclusive"
	modeShared    = "shared"
)

// Metrics are the prometheus collectors shared by instrumented locks.
type Metrics struct {
	acquisitions *prometheus.CounterVec
	tryFailures  *prometheus.CounterVec
	upgrades     *prometheus.CounterVec
	wait         *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srmutex",
			Name:      "acquisitions_total",
			Help:      "Successful lock acquisitions, nested ones included.",
		}, []string{"lock", "mode"}),
		tryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srmutex",
			Name:      "try_failures_total",
			Help:      "TryLock and TryRLock calls that found the lock busy.",
		}, []string{"lock", "mode"}),
		upgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srmutex",
			Name:      "upgrades_total",
			Help:      "Lock calls made while holding the lock only for reading.",
		}, []string{"lock"}),
		wait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "srmutex",
			Name:      "wait_seconds",
			Help:      "Time spent in blocking Lock and RLock calls.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"lock", "mode"}),
	}
	reg.MustRegister(m.acquisitions, m.tryFailures, m.upgrades, m.wait)
	return m
}

type modeMetrics struct {
	acquisitions prometheus.Counter
	tryFailures  prometheus.Counter
	wait         prometheus.Observer
}

func (m *Metrics) mode(name, mode string) modeMetrics {
	return modeMetrics{
		acquisitions: m.acquisitions.WithLabelValues(name, mode),
		tryFailures:  m.tryFailures.WithLabelValues(name, mode),
		wait:         m.wait.WithLabelValues(name, mode),
	}
}

// Instrumented wraps a RecursiveSharedLock and records its use.
type Instrumented struct {
	lock      RecursiveSharedLock
	clock     clockwork.Clock
	exclusive modeMetrics
	shared    modeMetrics
	upgrades  prometheus.Counter
}

// Instrument wraps l. name becomes the "lock" label. A nil clock means the
// real clock.
func Instrument(l RecursiveSharedLock, name string, m *Metrics, clock clockwork.Clock) *Instrumented {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Instrumented{
		lock:      l,
		clock:     clock,
		exclusive: m.mode(name, modeExclusive),
		shared:    m.mode(name, modeShared),
		upgrades:  m.upgrades.WithLabelValues(name),
	}
}

// Unwrap returns the wrapped lock.
func (i *Instrumented) Unwrap() RecursiveSharedLock {
	return i.lock
}

// Lock counts an upgrade when i is held only for reading and records the wait.
func (i *Instrumented) Lock() {
	if i.lock.IsRLocked() {
		i.upgrades.Inc()
	}
	start := i.clock.Now()
	i.lock.Lock()
	i.exclusive.wait.Observe(i.clock.Since(start).Seconds())
	i.exclusive.acquisitions.Inc()
}

// Unlock undoes a single Lock call.
func (i *Instrumented) Unlock() {
	i.lock.Unlock()
}

// RLock records the wait for a read hold.
func (i *Instrumented) RLock() {
	start := i.clock.Now()
	i.lock.RLock()
	i.shared.wait.Observe(i.clock.Since(start).Seconds())
	i.shared.acquisitions.Inc()
}

// RUnlock undoes a single RLock call.
func (i *Instrumented) RUnlock() {
	i.lock.RUnlock()
}

// TryLock counts a failure when the lock is busy.
func (i *Instrumented) TryLock() bool {
	if !i.lock.TryLock() {
		i.exclusive.tryFailures.Inc()
		return false
	}
	i.exclusive.acquisitions.Inc()
	return true
}

// TryRLock counts a failure when the lock is busy.
func (i *Instrumented) TryRLock() bool {
	if !i.lock.TryRLock() {
		i.shared.tryFailures.Inc()
		return false
	}
	i.shared.acquisitions.Inc()
	return true
}

// IsLocked is passed through to the wrapped lock.
func (i *Instrumented) IsLocked() bool {
	return i.lock.IsLocked()
}

// IsRLocked is passed through to the wrapped lock.
func (i *Instrumented) IsRLocked() bool {
	return i.lock.IsRLocked()
}
