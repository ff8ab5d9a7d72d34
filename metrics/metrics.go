package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	AttemptsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_attempts_started_total",
			Help: "Number of enrollment attempts that requested a payment intent",
		},
		[]string{"mode"},
	)

	AttemptsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_attempts_finished_total",
			Help: "Number of enrollment attempts by final outcome",
		},
		[]string{"mode", "outcome"},
	)

	GatewayCallTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_call_duration_seconds",
			Help: "Time taken by payment gateway calls",
		},
		[]string{"op"},
	)

	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_notifications_total",
			Help: "Number of admin notifications by backend and result",
		},
		[]string{"backend", "result"},
	)

	SweptAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enrollment_attempts_swept_total",
			Help: "Number of stale enrollment attempts discarded by the sweeper",
		},
	)
)

func Register() {
	prometheus.MustRegister(AttemptsStarted, AttemptsFinished, GatewayCallTime, Notifications, SweptAttempts)
}
