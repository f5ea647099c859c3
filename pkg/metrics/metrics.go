package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	talentflow = "talentflow"

	// Simulator metrics
	simulatorRequestsTotal = "simulator_requests_total"

	// Queue metrics
	queueDepth         = "queue_depth"
	queueAttemptsTotal = "queue_attempts_total"
	queueDropsTotal    = "queue_drops_total"

	// Resolver metrics
	resolverDegradedTotal = "resolver_degraded_total"

	// Labels
	kindLabel    = "kind"
	outcomeLabel = "outcome"
	resultLabel  = "result"
	pathLabel    = "path"
)

const (
	KindRead  = "read"
	KindWrite = "write"

	OutcomeServed = "served"
	OutcomeFault  = "fault"

	ResultSuccess = "success"
	ResultFailure = "failure"

	DegradedFallback = "fallback"
	DegradedQueued   = "queued"
)

var simulatorRequestsLabels = []string{
	kindLabel,
	outcomeLabel,
}

/**
* Metrics definition
**/
var simulatorRequestsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: talentflow,
		Name:      simulatorRequestsTotal,
		Help:      "number of calls seen by the request simulator, by kind and whether a fault was injected",
	},
	simulatorRequestsLabels,
)

var queueDepthMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: talentflow,
		Name:      queueDepth,
		Help:      "number of writes waiting in the offline queue",
	},
)

var queueAttemptsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: talentflow,
		Name:      queueAttemptsTotal,
		Help:      "number of replay attempts made by the offline queue",
	},
	[]string{resultLabel},
)

var queueDropsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: talentflow,
		Name:      queueDropsTotal,
		Help:      "number of queued writes dropped after exhausting their retries or being rejected",
	},
	[]string{pathLabel},
)

var resolverDegradedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: talentflow,
		Name:      resolverDegradedTotal,
		Help:      "number of calls the resolver answered from the store or handed to the offline queue",
	},
	[]string{kindLabel},
)

func IncreaseSimulatorRequestsMetric(kind, outcome string) {
	labels := prometheus.Labels{
		kindLabel:    kind,
		outcomeLabel: outcome,
	}
	simulatorRequestsTotalMetric.With(labels).Inc()
}

func UpdateQueueDepthMetric(depth int) {
	queueDepthMetric.Set(float64(depth))
}

func IncreaseQueueAttemptsMetric(result string) {
	queueAttemptsTotalMetric.With(prometheus.Labels{resultLabel: result}).Inc()
}

func IncreaseQueueDropsMetric(path string) {
	queueDropsTotalMetric.With(prometheus.Labels{pathLabel: path}).Inc()
}

func IncreaseResolverDegradedMetric(kind string) {
	resolverDegradedTotalMetric.With(prometheus.Labels{kindLabel: kind}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(simulatorRequestsTotalMetric)
	prometheus.MustRegister(queueDepthMetric)
	prometheus.MustRegister(queueAttemptsTotalMetric)
	prometheus.MustRegister(queueDropsTotalMetric)
	prometheus.MustRegister(resolverDegradedTotalMetric)
	prometheus.MustRegister(totalUniqueActorsPerWeekMetric)
}
