// Package metrics exposes collection and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edugen/edugen/internal/quiz"
)

const namespace = "edugen"

// Metrics holds the edugen collectors. It implements quiz.Observer.
type Metrics struct {
	cycles   *prometheus.CounterVec
	attempts *prometheus.CounterVec
	rejected *prometheus.CounterVec
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var _ quiz.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collect_cycles_total",
			Help:      "Collection cycles by kind and outcome.",
		}, []string{"kind", "outcome"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collect_attempts_total",
			Help:      "Generation calls made by collection cycles.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_rejected_total",
			Help:      "Generated items dropped, by reason.",
		}, []string{"kind", "reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"route"}),
	}
	reg.MustRegister(m.cycles, m.attempts, m.rejected, m.requests, m.latency)
	return m
}

func (m *Metrics) Attempt(kind quiz.Kind) {
	m.attempts.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) Rejected(kind quiz.Kind, reason string, n int) {
	if n <= 0 {
		return
	}
	m.rejected.WithLabelValues(string(kind), reason).Add(float64(n))
}

func (m *Metrics) Cycle(kind quiz.Kind, outcome string) {
	m.cycles.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if status == 0 {
		status = http.StatusOK
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}
