package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MeetingsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meetings_created_total",
			Help: "Total number of meetings created",
		},
	)

	MeetingsUpdatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meetings_updated_total",
			Help: "Total number of meeting updates applied",
		},
	)

	MeetingsDeletedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meetings_deleted_total",
			Help: "Total number of meetings deleted",
		},
	)

	NotificationsSentCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications inserted",
		},
	)

	NotificationFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Total number of notification inserts that failed",
		},
	)

	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

func Init() {
	prometheus.MustRegister(MeetingsCreatedCounter)
	prometheus.MustRegister(MeetingsUpdatedCounter)
	prometheus.MustRegister(MeetingsDeletedCounter)
	prometheus.MustRegister(NotificationsSentCounter)
	prometheus.MustRegister(NotificationFailuresCounter)
	prometheus.MustRegister(RequestDurationHistogram)
}
