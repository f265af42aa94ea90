package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AcquireAttempts tracks individual acquisition polling passes.
	AcquireAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sqlock_acquire_attempts_total",
		Help: "Total number of lock acquisition attempts",
	})
	// Acquired tracks successful lock acquisitions.
	Acquired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sqlock_acquired_total",
		Help: "Total number of locks acquired",
	})
	// Timeouts tracks acquisitions abandoned at their deadline.
	Timeouts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sqlock_timeouts_total",
		Help: "Total number of lock acquisitions that timed out",
	})
	// Releases tracks lock releases.
	Releases = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sqlock_releases_total",
		Help: "Total number of locks released",
	})
	// HeldGauge reports the number of locks this process currently holds.
	HeldGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sqlock_held_locks",
		Help: "Current number of held locks",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers lock metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AcquireAttempts, Acquired, Timeouts, Releases, HeldGauge)
}
