package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for adoption requests.
type Metrics struct {
	Created          prometheus.Counter
	Transitions      *prometheus.CounterVec
	DispatchFailures prometheus.Counter
}

// New registers the adoption metrics with reg; nil leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounter(prometheus.CounterOpts{
			Name: "petadopt_adoption_requests_created_total",
			Help: "Adoption requests submitted",
		}),

		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petadopt_adoption_transitions_total",
			Help: "Adoption request status changes, by target status",
		}, []string{"status"}),

		DispatchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "petadopt_adoption_notification_failures_total",
			Help: "Status changes whose requester notification could not be created",
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.Created.Inc()
	}
}

func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncrementDispatchFailure() {
	if m != nil {
		m.DispatchFailures.Inc()
	}
}
