// Package metrics provides Prometheus metrics for the gighive matching service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Job lifecycle metrics
	jobsCreated  prometheus.Counter
	jobsUpdated  prometheus.Counter
	jobsDeleted  prometheus.Counter
	jobsRepaired prometheus.Counter

	// Application lifecycle metrics
	applicationsCreated  prometheus.Counter
	applicationsAccepted prometheus.Counter
	applicationsRejected prometheus.Counter

	// Matching metrics
	eligibilityChecks  *prometheus.CounterVec
	eligibilityLatency prometheus.Histogram

	// Record store metrics
	storeLoads           *prometheus.CounterVec
	storeSaves           *prometheus.CounterVec
	storeCorruptPayloads *prometheus.CounterVec
	storeConflicts       *prometheus.CounterVec
	storeLatency         prometheus.Histogram

	// Migration metrics
	migrationRuns     prometheus.Counter
	migrationRewrites prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gighive",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.jobsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_created_total",
		Help:      "Total number of jobs created",
	})
	m.jobsUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_updated_total",
		Help:      "Total number of job updates persisted",
	})
	m.jobsDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_deleted_total",
		Help:      "Total number of jobs deleted",
	})
	m.jobsRepaired = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_repaired_total",
		Help:      "Total number of orphaned jobs repaired",
	})

	m.applicationsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_created_total",
		Help:      "Total number of job applications created",
	})
	m.applicationsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_accepted_total",
		Help:      "Total number of applications accepted",
	})
	m.applicationsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_rejected_total",
		Help:      "Total number of applications rejected",
	})

	m.eligibilityChecks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "eligibility_checks_total",
			Help:      "Total number of eligibility evaluations by outcome",
		},
		[]string{"outcome"},
	)
	m.eligibilityLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "eligibility_latency_milliseconds",
		Help:      "Histogram of eligibility evaluation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_loads_total",
			Help:      "Total number of collection loads by collection key",
		},
		[]string{"collection"},
	)
	m.storeSaves = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_saves_total",
			Help:      "Total number of collection saves by collection key",
		},
		[]string{"collection"},
	)
	m.storeCorruptPayloads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_corrupt_payloads_total",
			Help:      "Total number of corrupt payloads absorbed as empty collections",
		},
		[]string{"collection"},
	)
	m.storeConflicts = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_conflicts_total",
			Help:      "Total number of versioned-save conflicts",
		},
		[]string{"collection"},
	)
	m.storeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Durable store round-trip latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.migrationRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "migration_runs_total",
		Help:      "Total number of identity migration runs",
	})
	m.migrationRewrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "migration_rewrites_total",
		Help:      "Total number of records rewritten by identity migration",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers operating on the global manager.

// RecordJobCreated increments the created-jobs counter.
func RecordJobCreated() {
	if globalManager != nil && globalManager.enabled {
		globalManager.jobsCreated.Inc()
	}
}

// RecordJobUpdated increments the updated-jobs counter.
func RecordJobUpdated() {
	if globalManager != nil && globalManager.enabled {
		globalManager.jobsUpdated.Inc()
	}
}

// RecordJobDeleted increments the deleted-jobs counter.
func RecordJobDeleted() {
	if globalManager != nil && globalManager.enabled {
		globalManager.jobsDeleted.Inc()
	}
}

// RecordJobRepaired increments the repaired-jobs counter.
func RecordJobRepaired() {
	if globalManager != nil && globalManager.enabled {
		globalManager.jobsRepaired.Inc()
	}
}

// RecordApplicationCreated increments the created-applications counter.
func RecordApplicationCreated() {
	if globalManager != nil && globalManager.enabled {
		globalManager.applicationsCreated.Inc()
	}
}

// RecordApplicationAccepted increments the accepted-applications counter.
func RecordApplicationAccepted() {
	if globalManager != nil && globalManager.enabled {
		globalManager.applicationsAccepted.Inc()
	}
}

// RecordApplicationRejected increments the rejected-applications counter.
func RecordApplicationRejected() {
	if globalManager != nil && globalManager.enabled {
		globalManager.applicationsRejected.Inc()
	}
}

// RecordEligibilityCheck records one eligibility evaluation outcome
// ("eligible" or "ineligible").
func RecordEligibilityCheck(outcome string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.eligibilityChecks.WithLabelValues(outcome).Inc()
	}
}

// RecordEligibilityLatency observes one eligibility evaluation duration.
func RecordEligibilityLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.eligibilityLatency.Observe(latencyMs)
	}
}

// RecordStoreLoad increments the load counter for a collection.
func RecordStoreLoad(collection string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeLoads.WithLabelValues(collection).Inc()
	}
}

// RecordStoreSave increments the save counter for a collection.
func RecordStoreSave(collection string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeSaves.WithLabelValues(collection).Inc()
	}
}

// RecordStoreCorruptPayload increments the corrupt-payload counter for a collection.
func RecordStoreCorruptPayload(collection string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeCorruptPayloads.WithLabelValues(collection).Inc()
	}
}

// RecordStoreConflict increments the versioned-save conflict counter for a collection.
func RecordStoreConflict(collection string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeConflicts.WithLabelValues(collection).Inc()
	}
}

// RecordStoreLatency observes one durable-store round trip.
func RecordStoreLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.storeLatency.Observe(latencyMs)
	}
}

// RecordMigrationRun increments the migration-run counter.
func RecordMigrationRun() {
	if globalManager != nil && globalManager.enabled {
		globalManager.migrationRuns.Inc()
	}
}

// RecordMigrationRewrites adds n to the migration-rewrite counter.
func RecordMigrationRewrites(n int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.migrationRewrites.Add(float64(n))
	}
}

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes one request duration for an endpoint.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// GetRegistry returns the custom Prometheus registry used for serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
