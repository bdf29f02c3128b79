// Package telemetry exposes pipeline counters in Prometheus exposition
// format:
//   - floor_proposals_total{direction}    proposals created
//   - floor_reviews_total{verdict}        reviews by outcome
//   - floor_executions_total{result}      executions by outcome
//   - floor_equity                        current marked equity
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements the simulation's Observer against a Prometheus
// registry.
type Metrics struct {
	proposals  *prometheus.CounterVec
	reviews    *prometheus.CounterVec
	executions *prometheus.CounterVec
	equity     prometheus.Gauge

	registry *prometheus.Registry
}

// New builds and registers the metric set on a private registry.
func New() *Metrics {
	m := &Metrics{
		proposals: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "floor_proposals_total", Help: "Proposals created"},
			[]string{"direction"},
		),
		reviews: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "floor_reviews_total", Help: "Reviews by verdict"},
			[]string{"verdict"},
		),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "floor_executions_total", Help: "Executions by result"},
			[]string{"result"},
		),
		equity: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "floor_equity", Help: "Marked equity"},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.proposals, m.reviews, m.executions, m.equity)
	return m
}

// Handler serves the registry in text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ProposalCreated(direction string) {
	m.proposals.WithLabelValues(direction).Inc()
}

func (m *Metrics) ProposalReviewed(approved bool) {
	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	m.reviews.WithLabelValues(verdict).Inc()
}

func (m *Metrics) ProposalExecuted(success bool) {
	result := "failed"
	if success {
		result = "executed"
	}
	m.executions.WithLabelValues(result).Inc()
}

func (m *Metrics) EquityUpdated(total float64) {
	m.equity.Set(total)
}
