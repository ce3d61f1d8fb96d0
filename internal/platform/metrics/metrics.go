package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP and access-control metrics shared by every route.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	AuthFailures   *prometheus.CounterVec
	AuthzDenied    *prometheus.CounterVec
	LoginLockouts  prometheus.Counter
}

// New creates the metrics and registers them with reg. A nil reg leaves them
// unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petadopt_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),

		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petadopt_auth_failures_total",
			Help: "Rejected bearer tokens by failure kind",
		}, []string{"kind"}),

		AuthzDenied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petadopt_authorization_denied_total",
			Help: "Requests denied by role checks, by route pattern",
		}, []string{"route"}),

		LoginLockouts: f.NewCounter(prometheus.CounterOpts{
			Name: "petadopt_login_lockouts_total",
			Help: "Login attempts rejected because the account is locked out",
		}),
	}
}

// ObserveRequest records request latency.
func (m *Metrics) ObserveRequest(method, route, code string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, code).Observe(d.Seconds())
	}
}

// IncrementAuthFailure records a rejected token by kind.
func (m *Metrics) IncrementAuthFailure(kind string) {
	if m != nil {
		m.AuthFailures.WithLabelValues(kind).Inc()
	}
}

// IncrementAuthzDenied records a role check denial.
func (m *Metrics) IncrementAuthzDenied(route string) {
	if m != nil {
		m.AuthzDenied.WithLabelValues(route).Inc()
	}
}

// IncrementLoginLockout records a login refused by the lockout.
func (m *Metrics) IncrementLoginLockout() {
	if m != nil {
		m.LoginLockouts.Inc()
	}
}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
