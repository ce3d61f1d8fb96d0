package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the notification module.
type Metrics struct {
	Created          *prometheus.CounterVec
	DispatchFailures *prometheus.CounterVec
	MarkedRead       prometheus.Counter
}

// New registers the notification metrics with reg; nil leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petadopt_notifications_created_total",
			Help: "Notifications persisted, by type",
		}, []string{"type"}),

		DispatchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petadopt_notification_dispatch_failures_total",
			Help: "Notifications that could not be persisted, by type",
		}, []string{"type"}),

		MarkedRead: f.NewCounter(prometheus.CounterOpts{
			Name: "petadopt_notifications_marked_read_total",
			Help: "Notifications flipped from unread to read",
		}),
	}
}

func (m *Metrics) IncrementCreated(typ string) {
	if m != nil {
		m.Created.WithLabelValues(typ).Inc()
	}
}

func (m *Metrics) IncrementDispatchFailure(typ string) {
	if m != nil {
		m.DispatchFailures.WithLabelValues(typ).Inc()
	}
}

func (m *Metrics) AddMarkedRead(n int64) {
	if m != nil && n > 0 {
		m.MarkedRead.Add(float64(n))
	}
}
