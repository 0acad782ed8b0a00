package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the triage engine.
type Metrics struct {
	TurnsTotal        *prometheus.CounterVec
	IntentsTotal      *prometheus.CounterVec
	JobsSubmitted     *prometheus.CounterVec
	JobsRejectedBusy  prometheus.Counter
	JobsCompleted     *prometheus.CounterVec
	DegradedResponses prometheus.Counter
}

// New registers and returns the engine counters.
func New() *Metrics {
	return &Metrics{
		TurnsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardian_turns_total",
			Help: "Total conversation turns appended, by role",
		}, []string{"role"}),
		IntentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardian_intents_total",
			Help: "Total resolved intents, by kind",
		}, []string{"intent"}),
		JobsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardian_jobs_submitted_total",
			Help: "Total accepted async remediation jobs, by kind",
		}, []string{"kind"}),
		JobsRejectedBusy: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardian_jobs_rejected_busy_total",
			Help: "Total job submissions rejected because one was in flight",
		}),
		JobsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardian_jobs_completed_total",
			Help: "Total completed async remediation jobs, by kind",
		}, []string{"kind"}),
		DegradedResponses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardian_degraded_responses_total",
			Help: "Total intents degraded to the help reply on internal not-found",
		}),
	}
}
