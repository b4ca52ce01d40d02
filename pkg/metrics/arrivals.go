package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ArrivalMetrics records the pending-count polling loop activity.
type ArrivalMetrics struct {
	pollDuration  *prometheus.HistogramVec
	polls         *prometheus.CounterVec
	pollErrors    *prometheus.CounterVec
	notifications prometheus.Counter
	pendingCount  prometheus.Gauge
}

// NewArrivalMetrics registers the arrival tracker metrics on the provided registerer.
func NewArrivalMetrics(reg prometheus.Registerer) *ArrivalMetrics {
	if reg == nil {
		return &ArrivalMetrics{}
	}
	pollDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arrivals_poll_duration_seconds",
		Help:    "Duration of pending-count polls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	polls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arrivals_polls_total",
		Help: "Total pending-count polls by outcome.",
	}, []string{"outcome"})
	pollErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arrivals_poll_errors_total",
		Help: "Pending-count polls that failed.",
	}, []string{"reason"})
	notifications := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arrivals_notifications_total",
		Help: "Times the badge increased and a notification fired.",
	})
	pendingCount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "arrivals_pending_count",
		Help: "Last observed server-side pending delivery count.",
	})
	reg.MustRegister(pollDuration, polls, pollErrors, notifications, pendingCount)
	return &ArrivalMetrics{
		pollDuration:  pollDuration,
		polls:         polls,
		pollErrors:    pollErrors,
		notifications: notifications,
		pendingCount:  pendingCount,
	}
}

// ObservePoll records one poll attempt with its duration and outcome.
func (a *ArrivalMetrics) ObservePoll(outcome string, duration time.Duration) {
	if a == nil || a.polls == nil {
		return
	}
	label := normalizeLabel(outcome)
	a.polls.WithLabelValues(label).Inc()
	a.pollDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncPollError counts a failed poll by reason.
func (a *ArrivalMetrics) IncPollError(reason string) {
	if a == nil || a.pollErrors == nil {
		return
	}
	a.pollErrors.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncNotification counts a fired new-arrival notification.
func (a *ArrivalMetrics) IncNotification() {
	if a == nil || a.notifications == nil {
		return
	}
	a.notifications.Inc()
}

// SetPendingCount records the most recent observed count.
func (a *ArrivalMetrics) SetPendingCount(count int) {
	if a == nil || a.pendingCount == nil {
		return
	}
	a.pendingCount.Set(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
