// Package metrics provides Prometheus collectors for policy resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"stratus-hq/federation/pkg/config"
	"stratus-hq/federation/pkg/federation/policies"
)

// ResolutionMetrics tracks policy resolution and load outcomes. It
// implements policies.Observer; register it once at startup:
//
//	rm := metrics.NewResolutionMetrics(&cfg.Telemetry.Metrics, registry)
//	policies.RegisterObserver(rm)
//
// Metrics:
//   - stratus_federation_policy_resolutions_total: resolutions by fallback tier
//   - stratus_federation_policy_store_misses_total: store queries answering "no such queue"
//   - stratus_federation_policy_store_failures_total: store queries failing operationally
//   - stratus_federation_policy_loads_total: policy loads by manager type and outcome
//   - stratus_federation_policy_load_duration_seconds: policy load duration
//
// Resolution treats store outages and configuration absence identically for
// control flow; the separate miss and failure counters keep the two
// distinguishable operationally.
type ResolutionMetrics struct {
	resolutionsTotal   *prometheus.CounterVec
	storeMissesTotal   prometheus.Counter
	storeFailuresTotal prometheus.Counter
	loadsTotal         *prometheus.CounterVec
	loadDuration       prometheus.Histogram
}

// NewResolutionMetrics creates and registers resolution metrics with the
// provided registry.
func NewResolutionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ResolutionMetrics {
	rm := &ResolutionMetrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_resolutions_total",
				Help:      "Total policy configuration resolutions by fallback tier",
			},
			[]string{"tier"},
		),

		storeMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_store_misses_total",
				Help:      "State store queries that found no configuration for the queue",
			},
		),

		storeFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_store_failures_total",
				Help:      "State store queries that failed operationally during resolution",
			},
		),

		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_loads_total",
				Help:      "Total policy loads by manager type and outcome",
			},
			[]string{"manager_type", "outcome"},
		),

		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_load_duration_seconds",
				Help:      "Duration of full policy loads in seconds",
				// Loads are store-query bound; sub-millisecond when cached.
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
		),
	}

	registry.MustRegister(
		rm.resolutionsTotal,
		rm.storeMissesTotal,
		rm.storeFailuresTotal,
		rm.loadsTotal,
		rm.loadDuration,
	)

	return rm
}

// ObserveResolution records one configuration resolution.
func (rm *ResolutionMetrics) ObserveResolution(event policies.ResolutionEvent) {
	rm.resolutionsTotal.WithLabelValues(event.Tier.String()).Inc()
	if event.StoreMisses > 0 {
		rm.storeMissesTotal.Add(float64(event.StoreMisses))
	}
	if event.StoreFailures > 0 {
		rm.storeFailuresTotal.Add(float64(event.StoreFailures))
	}
}

// ObserveLoad records one policy load attempt.
func (rm *ResolutionMetrics) ObserveLoad(event policies.LoadEvent) {
	outcome := "success"
	if event.Err != nil {
		outcome = "error"
	}
	rm.loadsTotal.WithLabelValues(event.Resolution.ManagerType, outcome).Inc()
	rm.loadDuration.Observe(event.Duration.Seconds())
}
