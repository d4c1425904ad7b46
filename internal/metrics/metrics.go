package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels requests that produced a rule set.
	OutcomeSuccess = "success"
	// OutcomeError labels requests where a pipeline stage failed.
	OutcomeError = "error"

	// FlowPlain labels the load-mine-filter flow.
	FlowPlain = "plain"
	// FlowRelativity labels the flow that narrows attributes against a class first.
	FlowRelativity = "relativity"
)

var (
	miningRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tecmides",
			Name:      "mining_requests_total",
			Help:      "Total number of rule generation requests, partitioned by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	miningDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tecmides",
			Name:      "mining_seconds",
			Help:      "Rule generation latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"flow"},
	)

	rulesReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tecmides",
			Name:      "rules_returned",
			Help:      "Number of rules returned per request after filtering.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"flow"},
	)

	stageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tecmides",
			Name:      "stage_failures_total",
			Help:      "Pipeline stage failures, partitioned by stage and error class.",
		},
		[]string{"stage", "class"},
	)
)

// Register attaches tecmides collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		miningRequestsTotal,
		miningDurationSeconds,
		rulesReturned,
		stageFailuresTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveMining records one request's duration, outcome and rule count.
func ObserveMining(flow string, duration time.Duration, outcome string, rules int) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	miningRequestsTotal.WithLabelValues(flow, label).Inc()
	if duration < 0 {
		duration = 0
	}
	miningDurationSeconds.WithLabelValues(flow).Observe(duration.Seconds())
	if label == OutcomeSuccess {
		rulesReturned.WithLabelValues(flow).Observe(float64(rules))
	}
}

// ObserveStageFailure counts a failed stage by error class.
func ObserveStageFailure(stage, class string) {
	stageFailuresTotal.WithLabelValues(stage, class).Inc()
}
